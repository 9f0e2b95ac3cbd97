package main

import (
	"fmt"

	"github.com/deadlock-api/assets-api/internal/version"
)

// printVersion 输出注入的版本 + 提交信息。
func printVersion() {
	fmt.Fprintln(stdOut, version.Full())
}
