package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := newRootCmd(newApp())
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithCommit(commit),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, "Error:", err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}
