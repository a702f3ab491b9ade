// daily 把单个价格文件对齐到基准指数的交易日历上
//
//	daily SOURCE DEST START
package main

import "github.com/opsxjacky/vnmarket/internal/cli"

func main() {
	cli.Execute(cli.NewDailyRootCommand())
}
