package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/rules"
	"github.com/yeisme/listingvault/pkg/internal/signature"
)

// errInvalid 校验未通过，退出码为 1.
var errInvalid = errors.New("validation failed")

var (
	sniffMime string

	// 离线执行房源规则校验.
	validateCmd = &cobra.Command{
		Use:   "validate <file.json>",
		Short: "run the listing rules against a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var fields rules.FieldMap
			if err := sonic.Unmarshal(data, &fields); err != nil {
				return fmt.Errorf("JSON inválido: %w", err)
			}

			errs := rules.Validate(fields)
			if len(errs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", e.Code, e.Message)
			}

			return errInvalid
		},
	}

	// 按配置中的上传策略检查文件头是否与声明的 MIME 类型一致.
	sniffCmd = &cobra.Command{
		Use:   "sniff <file>",
		Short: "check a file's magic bytes against a declared mime type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return err
			}

			p, err := policy.New(configs.GetConfig().Upload)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ok, err := signature.New(p).Validate(f, sniffMime)
			if err != nil {
				return err
			}

			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: content does not match %s\n", args[0], sniffMime)
				return errInvalid
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", args[0], sniffMime)

			return nil
		},
	}
)

// registerValidateCommands 注册离线校验命令.
func registerValidateCommands() {
	sniffCmd.Flags().StringVar(&sniffMime, "mime", "image/jpeg", "declared mime type")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sniffCmd)
}
