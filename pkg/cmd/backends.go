package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/storage/db"
	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
	"github.com/yeisme/listingvault/pkg/internal/storage/mq"
)

// backendGroup 一类可插拔后端：房源元数据库、缓存 KV 或事件总线.
type backendGroup struct {
	use      string
	short    string
	aliases  []string
	names    func() []string
	selected func(*configs.AppConfig) string
}

func names[T ~string](types []T) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}

	return out
}

var backendGroups = []backendGroup{
	{
		use:      "db",
		short:    "database backends for listings, images and hero config",
		names:    func() []string { return names(db.GetRegisteredDBTypes()) },
		selected: func(c *configs.AppConfig) string { return string(c.DB.Type) },
	},
	{
		use:      "kv",
		short:    "key-value backends behind the listing and image caches",
		aliases:  []string{"keyvalue"},
		names:    func() []string { return names(kv.RegisteredTypes()) },
		selected: func(c *configs.AppConfig) string { return string(c.KV.Type) },
	},
	{
		use:      "mq",
		short:    "message backends for image and listing events",
		aliases:  []string{"messagequeue"},
		names:    func() []string { return names(mq.RegisteredTypes()) },
		selected: func(c *configs.AppConfig) string { return string(c.MQ.Type) },
	},
}

// lsCommand 列出已注册的实现，并用 * 标出 --config 选中的那个.
func (g backendGroup) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Short:   "list registered " + g.use + " backends used by the listing service",
		Aliases: []string{"list", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return err
			}

			current := g.selected(configs.GetConfig())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s backends:\n", g.use)

			for _, name := range g.names() {
				mark := " "
				if name == current {
					mark = "*"
				}

				fmt.Fprintf(out, " %s %s\n", mark, name)
			}

			return nil
		},
	}
}

// registerBackendCommands 注册 db、kv、mq 子命令.
func registerBackendCommands() {
	for _, g := range backendGroups {
		parent := &cobra.Command{Use: g.use, Short: g.short, Aliases: g.aliases}
		parent.AddCommand(g.lsCommand())
		rootCmd.AddCommand(parent)
	}
}
