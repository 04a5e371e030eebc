package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"yunion.io/x/log"

	"github.com/zexi/app-hook/pkg/client"
)

// 全局配置
var (
	host    string
	port    int
	route   string
	timeout time.Duration
)

func createClient() *client.AppClient {
	log.Debugf("使用配置: 服务器=%s:%d, 路由=%s", host, port, route)
	return client.NewAppClient(host, port, route)
}

func cmdGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	value, err := createClient().GetValue(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func cmdStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	status, err := createClient().GetStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}

func cmdStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	counts, err := createClient().GetRequestCounts(ctx)
	if err != nil {
		return err
	}
	routes := make([]string, 0, len(counts))
	for r := range counts {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	for _, r := range routes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.0f\n", r, counts[r])
	}
	return nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "app-ctl",
		Short: "app-hook 命令行客户端",
		Long: `app-ctl 用于查询 app-hook 服务。

支持的功能包括：
- get: 读取服务当前提供的值
- status: 读取服务运行状态
- stats: 按路由统计请求数`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "127.0.0.1", "服务器地址")
	rootCmd.PersistentFlags().IntVar(&port, "port", 8080, "HTTP端口")
	rootCmd.PersistentFlags().StringVar(&route, "route", "/app", "值所在的路由")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "请求超时")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "读取当前值",
		Args:  cobra.NoArgs,
		RunE:  cmdGet,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "读取服务运行状态",
		Args:  cobra.NoArgs,
		RunE:  cmdStatus,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "按路由统计请求数",
		Args:  cobra.NoArgs,
		RunE:  cmdStats,
	})
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
