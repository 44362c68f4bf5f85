// Package cli implements the salesctl command line tool for offline
// dataset inspection and report generation.
package cli

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dataFile string

var rootCmd = &cobra.Command{
	Use:   "salesctl",
	Short: "Inspect sales transaction data and generate reports",
	Long: `salesctl works on the same sales transaction files the dashboard serves:
it can summarize a dataset and export the analysis workbook without
starting the web server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "", "sales data file (.csv or .xlsx)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	if dataFile == "" && os.Getenv("DATA_FILE") != "" {
		dataFile = os.Getenv("DATA_FILE")
	}
}
