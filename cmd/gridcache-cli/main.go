// cmd/gridcache-cli – thin-client demo CLI
// -----------------------------------------------------------------------------
// Drives a running cache node over the binary thin-client protocol: one
// cobra command tree, one small client wrapper, routes wired together at
// the bottom.
// -----------------------------------------------------------------------------
// Examples
//
//	gridcache-cli caches list
//	gridcache-cli caches create mycache
//	gridcache-cli caches destroy mycache
//	gridcache-cli kv put mycache foo bar
//	gridcache-cli kv get mycache foo
//	gridcache-cli kv remove mycache foo
//	gridcache-cli kv scan mycache --page-size 100
//
// -----------------------------------------------------------------------------
// Environment
//
//	GRIDCACHE_ENDPOINT – host:port of the cache node (default "127.0.0.1:10800")
//
// -----------------------------------------------------------------------------
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solidgrid/gridcache/cache"
	"github.com/solidgrid/gridcache/conn"
	"github.com/solidgrid/gridcache/wire"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridcache-cli",
		Short: "Thin binary client for a gridcache cluster",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			return nil
		},
	}
	root.PersistentFlags().String("endpoint", "", "host:port of a cache node (default 127.0.0.1:10800)")
	root.PersistentFlags().String("username", "", "cluster username")
	root.PersistentFlags().String("password", "", "cluster password")
	_ = viper.BindPFlag("endpoint", root.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("username", root.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag("password", root.PersistentFlags().Lookup("password"))

	root.AddCommand(newCachesCommand())
	root.AddCommand(newKVCommand())
	return root
}

func initConfig() {
	viper.SetEnvPrefix("gridcache")
	viper.AutomaticEnv()
	viper.SetDefault("endpoint", "127.0.0.1:10800")
}

// dial connects to the configured endpoint using whatever --username/
// --password were supplied; an empty username means no credentials are
// sent, matching conn.Config's "both or neither" handshake rule.
func dial() (*cache.Client, error) {
	cfg := conn.Config{Endpoint: viper.GetString("endpoint")}
	if u := viper.GetString("username"); u != "" {
		p := viper.GetString("password")
		cfg.Username, cfg.Password = &u, &p
	}
	return cache.Connect(cfg)
}

// --- caches: cluster administration ---

func newCachesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "caches", Short: "List, create, and destroy caches"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every cache on the cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			names, err := cl.CacheNames()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a cache with default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			_, err = cl.GetOrCreateCache(args[0])
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "destroy [name]",
		Short: "Destroy a cache and all its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			return cl.DestroyCache(args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "config [name]",
		Short: "Print a cache's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			cfg, err := cl.CacheConfiguration(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%+v\n", *cfg)
			return nil
		},
	})
	return cmd
}

// --- kv: typed get/put/remove/scan over string keys and values ---
//
// The demo CLI only ever has command-line strings to work with, so it
// narrows every cache handle to Cache[string, string] via wire.StringCodec.
// A caller linking this module as a library uses cache.Typed with its own
// record.StructCodec instead.

func newKVCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "kv", Short: "Get, put, remove, and scan cache entries"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [cache] [key]",
		Short: "Fetch a value by key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			c := cache.Typed[string, string](cl, args[0], wire.StringCodec, wire.StringCodec)
			v, ok, err := c.Get(args[1])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("(absent)")
				return nil
			}
			fmt.Println(v)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "put [cache] [key] [value]",
		Short: "Store a value under a key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			c := cache.Typed[string, string](cl, args[0], wire.StringCodec, wire.StringCodec)
			return c.Put(args[1], args[2])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove [cache] [key]",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			c := cache.Typed[string, string](cl, args[0], wire.StringCodec, wire.StringCodec)
			removed, err := c.RemoveKey(args[1])
			if err != nil {
				return err
			}
			fmt.Println(removed)
			return nil
		},
	})
	scan := &cobra.Command{
		Use:   "scan [cache]",
		Short: "Print the first page of entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageSize, _ := cmd.Flags().GetInt32("page-size")
			cl, err := dial()
			if err != nil {
				return err
			}
			defer cl.Close()
			c := cache.Typed[string, string](cl, args[0], wire.StringCodec, wire.StringCodec)
			rows, err := c.Scan(pageSize)
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%s = %s\n", row.Key, row.Value)
			}
			return nil
		},
	}
	scan.Flags().Int32("page-size", 100, "maximum entries in the first page")
	cmd.AddCommand(scan)

	return cmd
}
