package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tkvdb/tkv/lib/kv"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps flag help text at Wrap characters
func WrapString(text string) string {
	var b strings.Builder
	lineWidth := 0

	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			// first word, no separator
		case lineWidth+1+len(word) > Wrap:
			b.WriteString("\n")
			lineWidth = 0
		default:
			b.WriteString(" ")
			lineWidth++
		}
		b.WriteString(word)
		lineWidth += len(word)
	}

	return b.String()
}

// SetupStoreFlags adds the backing selection flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "db"
	cmd.PersistentFlags().String(key, "", WrapString("Path to the database file. The file is created if it does not exist"))

	key = "memory"
	cmd.PersistentFlags().Bool(key, false, WrapString("Use an ephemeral in-memory database instead of a file. Mutually exclusive with --db"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("tkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetStoreOptions reads the backing selection from viper
func GetStoreOptions() kv.Options {
	return kv.Options{
		Path:   viper.GetString("db"),
		Memory: viper.GetBool("memory"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
