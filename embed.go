// embed.go - 内容嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
package main

import "embed"

// dataFS 包含变体索引、站点记录和图标注册表
//
//go:embed data/site data/icons.yaml
var dataFS embed.FS
