package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/bfbs-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/bfbs-cli/internal/config"
	"github.com/KaramelBytes/bfbs-cli/internal/parser"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bfbs configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "precision: %d\n", c.Precision)
		fmt.Fprintf(out, "print_digits: %d\n", c.PrintDigits)
		fmt.Fprintf(out, "comment_char: %q\n", c.CommentChar)
		fmt.Fprintf(out, "skip: %d\n", c.Skip)
		fmt.Fprintf(out, "header: %t\n", c.Header)
		fmt.Fprintf(out, "scientific: %t\n", c.Scientific)
		fmt.Fprintf(out, "verbose: %t\n", c.Verbose)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(out, "format: %s\n", c.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Edit the file contents only; BFBS_* overrides are not persisted.
		base, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		c := *base
		switch key {
		case "precision":
			u, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid int for precision: %v", val)
			}
			c.Precision = uint(u)
		case "print_digits":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for print_digits: %w", err)
			}
			c.PrintDigits = i
		case "comment_char":
			c.CommentChar = val
		case "skip":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for skip: %w", err)
			}
			c.Skip = i
		case "header", "scientific", "verbose":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			switch key {
			case "header":
				c.Header = b
			case "scientific":
				c.Scientific = b
			default:
				c.Verbose = b
			}
		case "delimiter":
			if _, err := parser.ParseDelimiter(val); err != nil {
				return fmt.Errorf("invalid delimiter: %q (use comma, semicolon, tab or pipe)", val)
			}
			c.Delimiter = val
		case "format":
			f, err := analysis.ParseFormat(val)
			if err != nil {
				return err
			}
			c.Format = string(f)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Normalize(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
