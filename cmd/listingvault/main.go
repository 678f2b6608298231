// Package main 启动应用程序
package main

import (
	"os"

	"github.com/yeisme/listingvault/pkg/cmd"
)

//	@title			ListingVault API
//	@version		1.0
//	@description	ListingVault 房源后台：图片上传校验、房源规则校验与存储、横幅配置与联系请求。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
