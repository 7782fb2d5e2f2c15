package main

import (
	"github.com/ProjectsTask/EasyAuctionHouse/cmd"
)

// main 是程序的入口函数
// 执行 go run main.go daemon 启动拍卖行服务
func main() {
	cmd.Execute()
}
