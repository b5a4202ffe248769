package main

// This transforms the files given on the command line with a shared cache and
// prints the results. Run it twice with the same "-cache" directory to see
// cache hits.

import (
	"fmt"
	"os"
	"strings"

	"github.com/evanw/classvars/pkg/api"
)

func main() {
	cacheDir := ""
	var files []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-cache=") {
			cacheDir = arg[len("-cache="):]
		} else {
			files = append(files, arg)
		}
	}

	cache := api.NewCache(cacheDir)
	for _, path := range files {
		contents, err := os.ReadFile(path)
		if err != nil {
			fmt.Println("[ERROR] ", err.Error())
			continue
		}
		result := api.Transform(string(contents), api.TransformOptions{
			Sourcefile: path,
			Runtime:    api.RuntimeImport,
			Cache:      cache,
		})
		for _, warn := range result.Warnings {
			fmt.Println("[WARN] ", formatMessage(warn))
		}
		for _, err := range result.Errors {
			fmt.Println("[ERROR] ", formatMessage(err))
		}
		fmt.Print(string(result.Code))
	}

	hits, misses := cache.Stats()
	fmt.Printf("cache: %d hits, %d misses\n", hits, misses)
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
}
