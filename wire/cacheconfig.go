package wire

import (
	"bytes"
	"fmt"
	"io"
)

// AtomicityMode selects whether a cache participates in cross-entry
// transactions.
type AtomicityMode int32

const (
	AtomicityTransactional AtomicityMode = 0
	AtomicityAtomic        AtomicityMode = 1
)

// CacheMode selects how a cache's data is distributed across the cluster.
type CacheMode int32

const (
	CacheModeLocal       CacheMode = 0
	CacheModeReplicated  CacheMode = 1
	CacheModePartitioned CacheMode = 2
)

// PartitionLossPolicy controls how a cache reacts to a lost partition.
type PartitionLossPolicy int32

const (
	PartitionLossReadOnlySafe  PartitionLossPolicy = 0
	PartitionLossReadOnlyAll   PartitionLossPolicy = 1
	PartitionLossReadWriteSafe PartitionLossPolicy = 2
	PartitionLossReadWriteAll  PartitionLossPolicy = 3
	PartitionLossIgnore        PartitionLossPolicy = 4
)

// RebalanceMode controls when a cache rebalances data to a new node.
type RebalanceMode int32

const (
	RebalanceSync  RebalanceMode = 0
	RebalanceAsync RebalanceMode = 1
	RebalanceNone  RebalanceMode = 2
)

// WriteSynchronizationMode controls how many backups must acknowledge a
// write before it completes.
type WriteSynchronizationMode int32

const (
	WriteSyncFullSync    WriteSynchronizationMode = 0
	WriteSyncFullAsync   WriteSynchronizationMode = 1
	WriteSyncPrimarySync WriteSynchronizationMode = 2
)

// CachePeekMode selects which copies of an entry a size query counts.
type CachePeekMode int8

const (
	PeekAll     CachePeekMode = 0
	PeekNear    CachePeekMode = 1
	PeekPrimary CachePeekMode = 2
	PeekBackup  CachePeekMode = 3
)

// IndexType selects the storage strategy for a QueryIndex.
type IndexType int8

const (
	IndexSorted     IndexType = 0
	IndexFulltext   IndexType = 1
	IndexGeoSpatial IndexType = 2
)

// CacheKeyConfiguration binds a key type to the field used to compute its
// affinity (which partition/node it lands on).
type CacheKeyConfiguration struct {
	TypeName             string
	AffinityKeyFieldName string
}

// QueryField describes one SQL-visible field of a QueryEntity.
type QueryField struct {
	Name              string
	TypeName          string
	KeyField          bool
	NotNullConstraint bool
}

// FieldAlias renames a query field for SQL purposes.
type FieldAlias struct {
	Name  string
	Alias string
}

// IndexField names a field participating in a QueryIndex and whether it
// sorts descending.
type IndexField struct {
	Name       string
	Descending bool
}

// QueryIndex describes one SQL index over a QueryEntity's fields.
type QueryIndex struct {
	IndexName  string
	IndexType  IndexType
	InlineSize int32
	Fields     []IndexField
}

// QueryEntity exposes a cache's key/value pair to SQL as a virtual table.
type QueryEntity struct {
	KeyType      string
	ValueType    string
	Table        string
	KeyField     string
	ValueField   string
	QueryFields  []QueryField
	FieldAliases []FieldAlias
	QueryIndexes []QueryIndex
}

// CacheDescriptor is the full cache configuration, covering every property
// the create/get-or-create-with-configuration and get-configuration
// operations exchange.
type CacheDescriptor struct {
	Name string

	AtomicityMode               AtomicityMode
	NumBackup                   int32
	CacheMode                   CacheMode
	CopyOnRead                  bool
	DataRegionName              *string
	EagerTTL                    bool
	StatisticsEnabled           bool
	GroupName                   *string
	DefaultLockTimeoutMs        int64
	MaxConcurrentAsyncOps       int32
	MaxQueryIterators           int32
	OnheapCacheEnabled          bool
	PartitionLossPolicy         PartitionLossPolicy
	QueryDetailMetricsSize      int32
	QueryParallelism            int32
	ReadFromBackup              bool
	RebalanceBatchSize          int32
	RebalanceBatchesPrefetchCnt int64
	RebalanceDelayMs            int64
	RebalanceMode               RebalanceMode
	RebalanceOrder              int32
	RebalanceThrottleMs         int64
	RebalanceTimeoutMs          int64
	SQLEscapeAll                bool
	SQLIndexMaxSize             int32
	SQLSchema                   *string
	WriteSynchronizationMode    WriteSynchronizationMode
	CacheKeyConfigurations      []CacheKeyConfiguration
	QueryEntities               []QueryEntity
}

// DefaultCacheDescriptor returns a descriptor named name, pre-populated with
// the server's own defaults for every other field.
func DefaultCacheDescriptor(name string) *CacheDescriptor {
	return &CacheDescriptor{
		Name:                        name,
		AtomicityMode:               AtomicityAtomic,
		NumBackup:                   0,
		CacheMode:                   CacheModePartitioned,
		CopyOnRead:                  true,
		EagerTTL:                    true,
		StatisticsEnabled:           true,
		DefaultLockTimeoutMs:        0,
		MaxConcurrentAsyncOps:       500,
		MaxQueryIterators:           1024,
		OnheapCacheEnabled:          false,
		PartitionLossPolicy:         PartitionLossIgnore,
		QueryDetailMetricsSize:      0,
		QueryParallelism:            1,
		ReadFromBackup:              true,
		RebalanceBatchSize:          512 * 1024,
		RebalanceBatchesPrefetchCnt: 2,
		RebalanceDelayMs:            0,
		RebalanceMode:               RebalanceAsync,
		RebalanceOrder:              0,
		RebalanceThrottleMs:         0,
		RebalanceTimeoutMs:          10000,
		SQLEscapeAll:                false,
		SQLIndexMaxSize:             -1,
		WriteSynchronizationMode:    WriteSyncPrimarySync,
	}
}

// configPropertyCode identifies one cache-configuration property in the
// tagged property list the create/get-or-create-with-configuration requests
// send. Response bodies (get-configuration) use a fixed positional layout
// instead and never reference these codes.
type configPropertyCode int16

const (
	propName                     configPropertyCode = 0
	propCacheMode                configPropertyCode = 1
	propCacheAtomicityMode       configPropertyCode = 2
	propBackups                  configPropertyCode = 3
	propWriteSynchronizationMode configPropertyCode = 4
	propCopyOnRead               configPropertyCode = 5
	propReadFromBackup           configPropertyCode = 6
	propDataRegionName           configPropertyCode = 100
	propIsOnheapCacheEnabled     configPropertyCode = 101
	propRebalanceMode            configPropertyCode = 300
	propRebalanceDelay           configPropertyCode = 301
	propRebalanceTimeout         configPropertyCode = 302
	propRebalanceBatchSize       configPropertyCode = 303
	propRebalanceBatchesPrefetch configPropertyCode = 304
	propRebalanceOrder           configPropertyCode = 305
	propRebalanceThrottle        configPropertyCode = 306
	propGroupName                configPropertyCode = 400
	propDefaultLockTimeout       configPropertyCode = 402
	propMaxConcurrentAsyncOps    configPropertyCode = 403
	propPartitionLossPolicy      configPropertyCode = 404
	propEagerTTL                 configPropertyCode = 405
	propStatisticsEnabled        configPropertyCode = 406
	propQueryEntities            configPropertyCode = 200
	propQueryParallelism         configPropertyCode = 201
	propQueryDetailMetricsSize   configPropertyCode = 202
	propSQLSchema                configPropertyCode = 203
	propSQLIndexInlineMaxSize    configPropertyCode = 204
	propSQLEscapeAll             configPropertyCode = 205
	propMaxQueryIterators        configPropertyCode = 206
	propCacheKeyConfigurations   configPropertyCode = 401
)

func packProperty(w io.Writer, code configPropertyCode, payload []byte) error {
	if err := WriteI16(w, int16(code)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func packBytes(write func(w io.Writer) error) []byte {
	var buf bytes.Buffer
	// an in-memory buffer never errors; the signature still threads an
	// error through so callers read the same as every other encode path.
	_ = write(&buf)
	return buf.Bytes()
}

// EncodeCacheDescriptor writes a CacheConfiguration as a tagged property
// list: a four-byte payload length, a two-byte property count, then that
// many (code, value) pairs. This is the shape CacheCreateWithConfiguration
// and CacheGetOrCreateWithConfiguration send.
func EncodeCacheDescriptor(w io.Writer, cfg *CacheDescriptor) error {
	var payload bytes.Buffer
	count := int16(25)

	must := func(code configPropertyCode, body []byte) {
		_ = packProperty(&payload, code, body)
	}

	must(propName, packBytes(func(w io.Writer) error { return WriteString(w, cfg.Name) }))
	must(propCacheAtomicityMode, packBytes(func(w io.Writer) error { return WriteI32(w, int32(cfg.AtomicityMode)) }))
	must(propBackups, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.NumBackup) }))
	must(propCacheMode, packBytes(func(w io.Writer) error { return WriteI32(w, int32(cfg.CacheMode)) }))
	must(propCopyOnRead, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.CopyOnRead) }))
	must(propEagerTTL, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.EagerTTL) }))
	must(propStatisticsEnabled, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.StatisticsEnabled) }))
	must(propDefaultLockTimeout, packBytes(func(w io.Writer) error { return WriteI64(w, cfg.DefaultLockTimeoutMs) }))
	must(propMaxConcurrentAsyncOps, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.MaxConcurrentAsyncOps) }))
	must(propMaxQueryIterators, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.MaxQueryIterators) }))
	must(propIsOnheapCacheEnabled, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.OnheapCacheEnabled) }))
	must(propPartitionLossPolicy, packBytes(func(w io.Writer) error { return WriteI32(w, int32(cfg.PartitionLossPolicy)) }))
	must(propQueryDetailMetricsSize, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.QueryDetailMetricsSize) }))
	must(propQueryParallelism, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.QueryParallelism) }))
	must(propReadFromBackup, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.ReadFromBackup) }))
	must(propRebalanceBatchSize, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.RebalanceBatchSize) }))
	must(propRebalanceBatchesPrefetch, packBytes(func(w io.Writer) error { return WriteI64(w, cfg.RebalanceBatchesPrefetchCnt) }))
	must(propRebalanceDelay, packBytes(func(w io.Writer) error { return WriteI64(w, cfg.RebalanceDelayMs) }))
	must(propRebalanceMode, packBytes(func(w io.Writer) error { return WriteI32(w, int32(cfg.RebalanceMode)) }))
	must(propRebalanceOrder, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.RebalanceOrder) }))
	must(propRebalanceThrottle, packBytes(func(w io.Writer) error { return WriteI64(w, cfg.RebalanceThrottleMs) }))
	must(propRebalanceTimeout, packBytes(func(w io.Writer) error { return WriteI64(w, cfg.RebalanceTimeoutMs) }))
	must(propSQLEscapeAll, packBytes(func(w io.Writer) error { return WriteBool(w, cfg.SQLEscapeAll) }))
	must(propSQLIndexInlineMaxSize, packBytes(func(w io.Writer) error { return WriteI32(w, cfg.SQLIndexMaxSize) }))
	must(propWriteSynchronizationMode, packBytes(func(w io.Writer) error { return WriteI32(w, int32(cfg.WriteSynchronizationMode)) }))

	if cfg.DataRegionName != nil {
		must(propDataRegionName, packBytes(func(w io.Writer) error { return WriteString(w, *cfg.DataRegionName) }))
		count++
	}
	if cfg.GroupName != nil {
		must(propGroupName, packBytes(func(w io.Writer) error { return WriteString(w, *cfg.GroupName) }))
		count++
	}
	if cfg.SQLSchema != nil {
		must(propSQLSchema, packBytes(func(w io.Writer) error { return WriteString(w, *cfg.SQLSchema) }))
		count++
	}
	if cfg.CacheKeyConfigurations != nil {
		must(propCacheKeyConfigurations, packBytes(func(w io.Writer) error { return writeCacheKeyConfigs(w, cfg.CacheKeyConfigurations) }))
		count++
	}
	if cfg.QueryEntities != nil {
		must(propQueryEntities, packBytes(func(w io.Writer) error { return writeQueryEntities(w, cfg.QueryEntities) }))
		count++
	}

	if err := WriteI32(w, int32(payload.Len())); err != nil {
		return err
	}
	if err := WriteI16(w, count); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// DecodeCacheDescriptor reads a CacheConfiguration response body: every
// field in a fixed positional order, with no property-code tags (the
// response shape the get-configuration operation returns, distinct from the
// tagged list EncodeCacheDescriptor writes for requests).
func DecodeCacheDescriptor(r io.Reader) (*CacheDescriptor, error) {
	cfg := &CacheDescriptor{}
	var err error
	readI32 := func() int32 {
		v, e := ReadI32(r)
		if e != nil && err == nil {
			err = e
		}
		return v
	}
	readI64 := func() int64 {
		v, e := ReadI64(r)
		if e != nil && err == nil {
			err = e
		}
		return v
	}
	readBool := func() bool {
		v, e := ReadBool(r)
		if e != nil && err == nil {
			err = e
		}
		return v
	}
	readOptStr := func() *string {
		v, e := ReadString(r)
		if e != nil {
			if err == nil {
				err = e
			}
			return nil
		}
		if v == "" {
			return nil
		}
		return &v
	}

	cfg.AtomicityMode = AtomicityMode(readI32())
	cfg.NumBackup = readI32()
	cfg.CacheMode = CacheMode(readI32())
	cfg.CopyOnRead = readBool()
	cfg.DataRegionName = readOptStr()
	cfg.EagerTTL = readBool()
	cfg.StatisticsEnabled = readBool()
	cfg.GroupName = readOptStr()
	cfg.DefaultLockTimeoutMs = readI64()
	cfg.MaxConcurrentAsyncOps = readI32()
	cfg.MaxQueryIterators = readI32()
	name, e := ReadString(r)
	if e != nil {
		return nil, e
	}
	cfg.Name = name
	cfg.OnheapCacheEnabled = readBool()
	cfg.PartitionLossPolicy = PartitionLossPolicy(readI32())
	cfg.QueryDetailMetricsSize = readI32()
	cfg.QueryParallelism = readI32()
	cfg.ReadFromBackup = readBool()
	cfg.RebalanceBatchSize = readI32()
	cfg.RebalanceBatchesPrefetchCnt = readI64()
	cfg.RebalanceDelayMs = readI64()
	cfg.RebalanceMode = RebalanceMode(readI32())
	cfg.RebalanceOrder = readI32()
	cfg.RebalanceThrottleMs = readI64()
	cfg.RebalanceTimeoutMs = readI64()
	cfg.SQLEscapeAll = readBool()
	cfg.SQLIndexMaxSize = readI32()
	cfg.SQLSchema = readOptStr()
	cfg.WriteSynchronizationMode = WriteSynchronizationMode(readI32())
	if err != nil {
		return nil, err
	}
	if err := validateDescriptorEnums(cfg); err != nil {
		return nil, err
	}

	keyConfigs, err := readCacheKeyConfigs(r)
	if err != nil {
		return nil, err
	}
	cfg.CacheKeyConfigurations = keyConfigs

	entities, err := readQueryEntities(r)
	if err != nil {
		return nil, err
	}
	cfg.QueryEntities = entities

	return cfg, nil
}

func validateDescriptorEnums(cfg *CacheDescriptor) error {
	if cfg.AtomicityMode < AtomicityTransactional || cfg.AtomicityMode > AtomicityAtomic {
		return fmt.Errorf("wire: unknown atomicity mode %d", cfg.AtomicityMode)
	}
	if cfg.CacheMode < CacheModeLocal || cfg.CacheMode > CacheModePartitioned {
		return fmt.Errorf("wire: unknown cache mode %d", cfg.CacheMode)
	}
	if cfg.WriteSynchronizationMode < WriteSyncFullSync || cfg.WriteSynchronizationMode > WriteSyncPrimarySync {
		return fmt.Errorf("wire: unknown write-synchronization mode %d", cfg.WriteSynchronizationMode)
	}
	if cfg.RebalanceMode < RebalanceSync || cfg.RebalanceMode > RebalanceNone {
		return fmt.Errorf("wire: unknown rebalance mode %d", cfg.RebalanceMode)
	}
	if cfg.PartitionLossPolicy < PartitionLossReadOnlySafe || cfg.PartitionLossPolicy > PartitionLossIgnore {
		return fmt.Errorf("wire: unknown partition-loss policy %d", cfg.PartitionLossPolicy)
	}
	return nil
}

func writeCacheKeyConfigs(w io.Writer, configs []CacheKeyConfiguration) error {
	if err := WriteI32(w, int32(len(configs))); err != nil {
		return err
	}
	for _, c := range configs {
		if err := WriteString(w, c.TypeName); err != nil {
			return err
		}
		if err := WriteString(w, c.AffinityKeyFieldName); err != nil {
			return err
		}
	}
	return nil
}

func readCacheKeyConfigs(r io.Reader) ([]CacheKeyConfiguration, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]CacheKeyConfiguration, n)
	for i := range out {
		typeName, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		affinityField, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		out[i] = CacheKeyConfiguration{TypeName: typeName, AffinityKeyFieldName: affinityField}
	}
	return out, nil
}

func writeQueryEntities(w io.Writer, entities []QueryEntity) error {
	if err := WriteI32(w, int32(len(entities))); err != nil {
		return err
	}
	for _, e := range entities {
		if err := WriteString(w, e.KeyType); err != nil {
			return err
		}
		if err := WriteString(w, e.ValueType); err != nil {
			return err
		}
		if err := WriteString(w, e.Table); err != nil {
			return err
		}
		if err := WriteString(w, e.KeyField); err != nil {
			return err
		}
		if err := WriteString(w, e.ValueField); err != nil {
			return err
		}
		if err := writeQueryFields(w, e.QueryFields); err != nil {
			return err
		}
		if err := writeFieldAliases(w, e.FieldAliases); err != nil {
			return err
		}
		if err := writeQueryIndexes(w, e.QueryIndexes); err != nil {
			return err
		}
	}
	return nil
}

func readQueryEntities(r io.Reader) ([]QueryEntity, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]QueryEntity, n)
	for i := range out {
		keyType, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		valueType, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		table, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		keyField, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		valueField, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		fields, err := readQueryFields(r)
		if err != nil {
			return nil, err
		}
		aliases, err := readFieldAliases(r)
		if err != nil {
			return nil, err
		}
		indexes, err := readQueryIndexes(r)
		if err != nil {
			return nil, err
		}
		out[i] = QueryEntity{
			KeyType: keyType, ValueType: valueType, Table: table,
			KeyField: keyField, ValueField: valueField,
			QueryFields: fields, FieldAliases: aliases, QueryIndexes: indexes,
		}
	}
	return out, nil
}

func writeQueryFields(w io.Writer, fields []QueryField) error {
	if err := WriteI32(w, int32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := WriteString(w, f.Name); err != nil {
			return err
		}
		if err := WriteString(w, f.TypeName); err != nil {
			return err
		}
		if err := WriteBool(w, f.KeyField); err != nil {
			return err
		}
		if err := WriteBool(w, f.NotNullConstraint); err != nil {
			return err
		}
	}
	return nil
}

func readQueryFields(r io.Reader) ([]QueryField, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]QueryField, n)
	for i := range out {
		name, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		typeName, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		keyField, err := ReadBool(r)
		if err != nil {
			return nil, err
		}
		notNull, err := ReadBool(r)
		if err != nil {
			return nil, err
		}
		out[i] = QueryField{Name: name, TypeName: typeName, KeyField: keyField, NotNullConstraint: notNull}
	}
	return out, nil
}

func writeFieldAliases(w io.Writer, aliases []FieldAlias) error {
	if err := WriteI32(w, int32(len(aliases))); err != nil {
		return err
	}
	for _, a := range aliases {
		if err := WriteString(w, a.Name); err != nil {
			return err
		}
		if err := WriteString(w, a.Alias); err != nil {
			return err
		}
	}
	return nil
}

func readFieldAliases(r io.Reader) ([]FieldAlias, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]FieldAlias, n)
	for i := range out {
		name, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		alias, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		out[i] = FieldAlias{Name: name, Alias: alias}
	}
	return out, nil
}

func writeQueryIndexes(w io.Writer, indexes []QueryIndex) error {
	if err := WriteI32(w, int32(len(indexes))); err != nil {
		return err
	}
	for _, idx := range indexes {
		if err := WriteString(w, idx.IndexName); err != nil {
			return err
		}
		if err := WriteU8(w, uint8(idx.IndexType)); err != nil {
			return err
		}
		if err := WriteI32(w, idx.InlineSize); err != nil {
			return err
		}
		if err := writeIndexFields(w, idx.Fields); err != nil {
			return err
		}
	}
	return nil
}

func readQueryIndexes(r io.Reader) ([]QueryIndex, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]QueryIndex, n)
	for i := range out {
		name, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		kind, err := ReadU8(r)
		if err != nil {
			return nil, err
		}
		if kind > uint8(IndexGeoSpatial) {
			return nil, fmt.Errorf("wire: unknown index kind %d", kind)
		}
		inlineSize, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		fields, err := readIndexFields(r)
		if err != nil {
			return nil, err
		}
		out[i] = QueryIndex{IndexName: name, IndexType: IndexType(kind), InlineSize: inlineSize, Fields: fields}
	}
	return out, nil
}

func writeIndexFields(w io.Writer, fields []IndexField) error {
	if err := WriteI32(w, int32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := WriteString(w, f.Name); err != nil {
			return err
		}
		if err := WriteBool(w, f.Descending); err != nil {
			return err
		}
	}
	return nil
}

func readIndexFields(r io.Reader) ([]IndexField, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]IndexField, n)
	for i := range out {
		name, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		desc, err := ReadBool(r)
		if err != nil {
			return nil, err
		}
		out[i] = IndexField{Name: name, Descending: desc}
	}
	return out, nil
}
