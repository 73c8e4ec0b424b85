package wire

import (
	"bytes"
	"testing"
)

// encodeCacheDescriptorPositional writes a descriptor in the same fixed
// positional order DecodeCacheDescriptor expects, used only to exercise the
// decode path in isolation from the (differently shaped) tagged encoder.
func encodeCacheDescriptorPositional(t *testing.T, w *bytes.Buffer, cfg *CacheDescriptor) {
	t.Helper()
	must := func(err error) {
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	writeOptStr := func(s *string) {
		if s == nil {
			must(WriteString(w, ""))
			return
		}
		must(WriteString(w, *s))
	}

	must(WriteI32(w, int32(cfg.AtomicityMode)))
	must(WriteI32(w, cfg.NumBackup))
	must(WriteI32(w, int32(cfg.CacheMode)))
	must(WriteBool(w, cfg.CopyOnRead))
	writeOptStr(cfg.DataRegionName)
	must(WriteBool(w, cfg.EagerTTL))
	must(WriteBool(w, cfg.StatisticsEnabled))
	writeOptStr(cfg.GroupName)
	must(WriteI64(w, cfg.DefaultLockTimeoutMs))
	must(WriteI32(w, cfg.MaxConcurrentAsyncOps))
	must(WriteI32(w, cfg.MaxQueryIterators))
	must(WriteString(w, cfg.Name))
	must(WriteBool(w, cfg.OnheapCacheEnabled))
	must(WriteI32(w, int32(cfg.PartitionLossPolicy)))
	must(WriteI32(w, cfg.QueryDetailMetricsSize))
	must(WriteI32(w, cfg.QueryParallelism))
	must(WriteBool(w, cfg.ReadFromBackup))
	must(WriteI32(w, cfg.RebalanceBatchSize))
	must(WriteI64(w, cfg.RebalanceBatchesPrefetchCnt))
	must(WriteI64(w, cfg.RebalanceDelayMs))
	must(WriteI32(w, int32(cfg.RebalanceMode)))
	must(WriteI32(w, cfg.RebalanceOrder))
	must(WriteI64(w, cfg.RebalanceThrottleMs))
	must(WriteI64(w, cfg.RebalanceTimeoutMs))
	must(WriteBool(w, cfg.SQLEscapeAll))
	must(WriteI32(w, cfg.SQLIndexMaxSize))
	writeOptStr(cfg.SQLSchema)
	must(WriteI32(w, int32(cfg.WriteSynchronizationMode)))
	must(writeCacheKeyConfigs(w, cfg.CacheKeyConfigurations))
	must(writeQueryEntities(w, cfg.QueryEntities))
}

func TestCacheDescriptorDecodeRoundTrip(t *testing.T) {
	cfg := DefaultCacheDescriptor("orders")
	region := "in-memory"
	cfg.DataRegionName = &region
	cfg.CacheKeyConfigurations = []CacheKeyConfiguration{{TypeName: "Order", AffinityKeyFieldName: "customerId"}}
	cfg.QueryEntities = []QueryEntity{{
		KeyType: "java.lang.Long", ValueType: "Order", Table: "ORDERS",
		KeyField: "ID", ValueField: "_VAL",
		QueryFields:  []QueryField{{Name: "ID", TypeName: "java.lang.Long", KeyField: true, NotNullConstraint: true}},
		FieldAliases: []FieldAlias{{Name: "ID", Alias: "order_id"}},
		QueryIndexes: []QueryIndex{{IndexName: "IDX_ID", IndexType: IndexSorted, InlineSize: 8, Fields: []IndexField{{Name: "ID"}}}},
	}}

	var buf bytes.Buffer
	encodeCacheDescriptorPositional(t, &buf, cfg)

	got, err := DecodeCacheDescriptor(&buf)
	if err != nil {
		t.Fatalf("DecodeCacheDescriptor: %v", err)
	}
	if got.Name != cfg.Name {
		t.Errorf("Name = %q, want %q", got.Name, cfg.Name)
	}
	if got.DataRegionName == nil || *got.DataRegionName != region {
		t.Errorf("DataRegionName = %v, want %q", got.DataRegionName, region)
	}
	if len(got.CacheKeyConfigurations) != 1 || got.CacheKeyConfigurations[0].TypeName != "Order" {
		t.Errorf("CacheKeyConfigurations mismatch: %#v", got.CacheKeyConfigurations)
	}
	if len(got.QueryEntities) != 1 || got.QueryEntities[0].Table != "ORDERS" {
		t.Errorf("QueryEntities mismatch: %#v", got.QueryEntities)
	}
	if len(got.QueryEntities[0].QueryIndexes) != 1 || got.QueryEntities[0].QueryIndexes[0].IndexName != "IDX_ID" {
		t.Errorf("QueryIndexes mismatch: %#v", got.QueryEntities[0].QueryIndexes)
	}
}

func TestDecodeCacheDescriptorRejectsBadCacheMode(t *testing.T) {
	cfg := DefaultCacheDescriptor("orders")
	cfg.CacheMode = CacheMode(9)

	var buf bytes.Buffer
	encodeCacheDescriptorPositional(t, &buf, cfg)

	if _, err := DecodeCacheDescriptor(&buf); err == nil {
		t.Fatal("expected error for out-of-range cache mode")
	}
}

func TestEncodeCacheDescriptorEmitsEachPropertyOnce(t *testing.T) {
	cfg := DefaultCacheDescriptor("sessions")

	var buf bytes.Buffer
	if err := EncodeCacheDescriptor(&buf, cfg); err != nil {
		t.Fatalf("EncodeCacheDescriptor: %v", err)
	}

	payloadLen, err := ReadI32(&buf)
	if err != nil {
		t.Fatalf("read payload length: %v", err)
	}
	count, err := ReadI16(&buf)
	if err != nil {
		t.Fatalf("read property count: %v", err)
	}
	if int(count) != 25 {
		t.Fatalf("property count = %d, want 25 (no optional fields set)", count)
	}

	payload := make([]byte, payloadLen)
	if _, err := buf.Read(payload); err != nil {
		t.Fatalf("read payload: %v", err)
	}

	widthOf := map[configPropertyCode]string{
		propName:                     "string",
		propCacheAtomicityMode:       "i32",
		propBackups:                  "i32",
		propCacheMode:                "i32",
		propCopyOnRead:               "bool",
		propEagerTTL:                 "bool",
		propStatisticsEnabled:        "bool",
		propDefaultLockTimeout:       "i64",
		propMaxConcurrentAsyncOps:    "i32",
		propMaxQueryIterators:        "i32",
		propIsOnheapCacheEnabled:     "bool",
		propPartitionLossPolicy:      "i32",
		propQueryDetailMetricsSize:   "i32",
		propQueryParallelism:         "i32",
		propReadFromBackup:           "bool",
		propRebalanceBatchSize:       "i32",
		propRebalanceBatchesPrefetch: "i64",
		propRebalanceDelay:           "i64",
		propRebalanceMode:            "i32",
		propRebalanceOrder:           "i32",
		propRebalanceThrottle:        "i64",
		propRebalanceTimeout:         "i64",
		propSQLEscapeAll:             "bool",
		propSQLIndexInlineMaxSize:    "i32",
		propWriteSynchronizationMode: "i32",
	}

	seen := make(map[configPropertyCode]int)
	pr := bytes.NewReader(payload)
	for pr.Len() > 0 {
		code, err := ReadI16(pr)
		if err != nil {
			t.Fatalf("read property code: %v", err)
		}
		pc := configPropertyCode(code)
		seen[pc]++
		switch widthOf[pc] {
		case "string":
			if _, err := ReadString(pr); err != nil {
				t.Fatalf("read string property: %v", err)
			}
		case "bool":
			if _, err := ReadBool(pr); err != nil {
				t.Fatalf("read bool property: %v", err)
			}
		case "i64":
			if _, err := ReadI64(pr); err != nil {
				t.Fatalf("read i64 property: %v", err)
			}
		default:
			if _, err := ReadI32(pr); err != nil {
				t.Fatalf("read i32 property: %v", err)
			}
		}
	}
	if len(seen) != 25 {
		t.Fatalf("distinct property codes = %d, want 25", len(seen))
	}
	for pc, n := range seen {
		if n != 1 {
			t.Errorf("property code %d appeared %d times, want exactly 1", pc, n)
		}
	}
}
