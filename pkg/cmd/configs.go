package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/rule"
)

var (
	// config 子命令，执行前先加载 --config 指定的配置.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "config subcommands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configs.InitConfig(configPath)
		},
	}

	// 打印当前使用的配置文件路径.
	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "print the path of the current config file",
		Run: func(cmd *cobra.Command, args []string) {
			used := configs.GetViper().ConfigFileUsed()
			if used == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no config file used (defaults and LISTINGVAULT_* env only)")
				return
			}

			fmt.Fprintln(cmd.OutOrStdout(), used)
		},
	}

	// 以 JSON 打印生效的配置，--debug 时附带 viper 的调试输出.
	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "print the current config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				configs.GetViper().Debug()
			}

			b, err := sonic.ConfigStd.MarshalIndent(configs.GetConfig(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}

	// 校验 server、log、upload 等会在启动时检查的配置段.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "validate the config sections checked at startup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.GetConfig()
			sections := map[string]any{
				"server":          &cfg.Server,
				"log":             &cfg.Log,
				"upload":          &cfg.Upload,
				"rate_limit":      &cfg.RateLimit,
				"circuit_breaker": &cfg.CircuitBreaker,
			}

			failed := false

			for name, section := range sections {
				for field, tag := range rule.Errors(rule.ValidateStruct(section)) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: %s\n", name, field, tag)

					failed = true
				}
			}

			if failed {
				return errInvalid
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")

			return nil
		},
	}
)

// registerConfigsCommands 注册 CLI 子命令.
func registerConfigsCommands() {
	configCmd.AddCommand(pathCmd)
	configCmd.AddCommand(debugCmd)
	configCmd.AddCommand(checkCmd)

	rootCmd.AddCommand(configCmd)
}
