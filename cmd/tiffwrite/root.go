package main

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	tiff "github.com/AlanRace/go-tiff"
	"github.com/AlanRace/go-tiff/storage"
	"github.com/mitchellh/go-homedir"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config   string
	loglevel int

	rootCmd = &cobra.Command{
		Use:          "tiffwrite [flags] input...",
		Short:        "Convert images into a strip organised TIFF file",
		Args:         cobra.MinimumNArgs(1),
		RunE:         writeTIFF,
		SilenceUsage: true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&config, "config", "", "", "config file (default $HOME/.tiffwrite.yaml)")
	flags.IntVarP(&loglevel, "loglevel", "l", 1, "output level of logs (1: error, 2: warning, 3: info, 4: trace)")
	flags.StringP("output", "o", "", "output path or s3://bucket/key")
	flags.StringP("byteorder", "b", "little", "byte order of the file (little or big)")
	flags.StringP("compression", "c", "none", "strip compression (none, lzw, deflate or packbits)")
	flags.IntP("rowsperstrip", "r", 0, "rows in each strip, 0 to size strips automatically")
	flags.BoolP("planar", "p", false, "store each sample in its own plane")
	flags.String("software", "tiffwrite", "value of the Software tag, empty to leave it out")
	flags.Float64("resolution", 0, "pixels per inch, 0 to leave resolution out")
	flags.IntP("workers", "w", 0, "goroutines encoding strips, 0 for one per CPU")

	for _, name := range []string{"loglevel", "output", "byteorder", "compression", "rowsperstrip", "planar",
		"software", "resolution", "workers"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	cobra.OnInitialize(initConfig)
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if config != "" {
		viper.SetConfigFile(config)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalln(err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".tiffwrite")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("tiffwrite")
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	gLog.InitLog(rootCmd.Name(), viper.GetInt("loglevel"), "terminal")
	tiff.SetLogger(gLog.Trace)

	if configErr == nil {
		gLog.Info.Printf("Using config file: %s", viper.ConfigFileUsed())
	} else if config != "" {
		gLog.Warning.Printf("Error %v reading config file %s", configErr, config)
	}
}

func writeTIFF(cmd *cobra.Command, args []string) error {
	opts, err := optionsFromConfig(viper.GetViper())
	if err != nil {
		return err
	}

	target := viper.GetString("output")
	if target == "" {
		target = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".tif"
		gLog.Info.Printf("No output given, writing %s", target)
	}

	dest, name, err := storage.Parse(target)
	if err != nil {
		return err
	}

	file, err := buildFile(args, opts)
	if err != nil {
		return err
	}

	data, err := tiff.EncodeWithOptions(file, tiff.EncodeOptions{Workers: opts.Workers})
	if err != nil {
		return err
	}

	if err := dest.Put(context.Background(), name, data); err != nil {
		return err
	}

	gLog.Info.Printf("Wrote %d bytes, %d images to %s", len(data), len(file.IFDList), target)
	return nil
}
