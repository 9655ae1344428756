package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"
)

func init() {
	// cobra never parses flag.CommandLine, so the klog flags (-v and
	// friends) must be carried over to the root command to be reachable.
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)
}

func main() {
	_ = godotenv.Load()

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
