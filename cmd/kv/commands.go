package kv

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the string value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := localStore.Strings().Set(key, value); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the string value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := localStore.Strings().Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", key, found, value)
			return nil
		},
	}
	jsetCmd = &cobra.Command{
		Use:   "jset [key] [json]",
		Short: "Sets the JSON value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return fmt.Errorf("value must be valid JSON: %w", err)
			}
			if err := localStore.JSON().Set(key, value); err != nil {
				return err
			}
			fmt.Println("jset successfully")
			return nil
		},
	}
	jgetCmd = &cobra.Command{
		Use:   "jget [key]",
		Short: "Reads the JSON value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := localStore.JSON().Get(key)
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			pretty, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=true, value=%s\n", key, pretty)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := localStore.Strings().Delete(key); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			found, err := localStore.Strings().Has(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v\n", key, found)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := localStore.Strings().Keys()
			if err != nil {
				return err
			}
			defer cur.Close()
			for cur.Next() {
				fmt.Println(cur.Value())
			}
			return cur.Err()
		},
	}
	valuesCmd = &cobra.Command{
		Use:   "values",
		Short: "Lists all values in key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := localStore.Strings().Values()
			if err != nil {
				return err
			}
			defer cur.Close()
			for cur.Next() {
				fmt.Println(cur.Value())
			}
			return cur.Err()
		},
	}
	entriesCmd = &cobra.Command{
		Use:   "entries",
		Short: "Lists all key-value pairs in key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return localStore.Strings().ForEach(func(key, value string) error {
				fmt.Printf("%s=%s\n", key, value)
				return nil
			})
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Prints the number of stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := localStore.Strings().Size()
			if err != nil {
				return err
			}
			fmt.Printf("size=%d\n", size)
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Deletes every key-value pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := localStore.Strings().Clear(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		},
	}
)
