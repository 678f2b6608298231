package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/signature"
)

var (
	policyCmd = &cobra.Command{
		Use:   "policy",
		Short: "upload policy commands",
	}

	// 打印配置生效后的上传策略.
	policyShowCmd = &cobra.Command{
		Use:   "show",
		Short: "print the effective upload policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return err
			}

			p, err := policy.New(configs.GetConfig().Upload)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "max image size:     %d MB\n", p.MaxImageMB())
			fmt.Fprintf(out, "max images/batch:   %d\n", p.MaxBatchCount())
			fmt.Fprintf(out, "max request size:   %d bytes\n", p.MaxRequestBytes())
			fmt.Fprintf(out, "extensions:         %s\n", p.ExtensionsLabel())
			fmt.Fprintf(out, "mime types:         %s\n", strings.Join(p.AllowedMimeTypes(), ", "))
			fmt.Fprintf(out, "strict mime:        %t\n", p.StrictMime())
			fmt.Fprintf(out, "magic bytes:        %t\n", p.CheckMagicBytes())
			fmt.Fprintf(out, "concurrency:        %d\n", p.Concurrency())
			fmt.Fprintf(out, "known signatures:   %s\n", strings.Join(signature.Supported(), ", "))

			return nil
		},
	}
)

// registerPolicyCommands 注册上传策略命令.
func registerPolicyCommands() {
	policyCmd.AddCommand(policyShowCmd)
	rootCmd.AddCommand(policyCmd)
}
