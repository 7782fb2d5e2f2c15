package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// cfgFile 配置文件路径, 所有子命令共用
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "auctionhouse",
	Short: "game auction house transaction core.",
	Long:  "game auction house transaction core: listings, bids, escrow, settlement.",
}

// Execute 解析命令行参数并执行相应的命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "conf", "./config/config.toml", "conf file path")
}
