package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no matching record")

type recordFlags struct {
	topic       string
	parameters  string
	content     string
	contentFile string
}

func (f *recordFlags) request() (dto.RecordRequest, error) {
	req := dto.RecordRequest{Topic: f.topic, Parameters: f.parameters, Content: f.content}
	switch f.contentFile {
	case "":
	case "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read content from stdin: %w", err)
		}
		req.Content = string(b)
	default:
		b, err := os.ReadFile(f.contentFile)
		if err != nil {
			return req, fmt.Errorf("failed to read content file: %w", err)
		}
		req.Content = string(b)
	}
	return req, nil
}

// openRecordService loads configuration and bootstraps the record store for one CLI invocation.
func openRecordService(cmd *cobra.Command) (service.RecordService, func(), error) {
	cfg, appLogger, err := loadConfigAndLogger()
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewRecordService(newRecordRepository(cfg, appLogger), appLogger)
	if err := svc.Bootstrap(cmd.Context()); err != nil {
		_ = appLogger.Sync()
		return nil, nil, fmt.Errorf("record store unavailable at %s: %w", cfg.Database.Path, err)
	}
	return svc, func() { _ = appLogger.Sync() }, nil
}

// printResult writes the result message (and content, when present) and turns misses and failures into errors.
func printResult(cmd *cobra.Command, result repository.Result) error {
	out := cmd.OutOrStdout()
	if result.Content != "" {
		fmt.Fprintln(out, result.Content)
	} else {
		fmt.Fprintln(out, result.Message())
	}
	switch {
	case result.NotFound():
		return errNoMatch
	case result.Failed():
		return result.Err
	}
	return nil
}

func newRecordsCmd() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Manage stored analysis records",
	}

	run := func(op func(svc service.RecordService, cmd *cobra.Command, req dto.RecordRequest) (repository.Result, error)) func(*cobra.Command, []string) error {
		flags := &recordFlags{}
		return func(cmd *cobra.Command, args []string) error {
			flags.topic, _ = cmd.Flags().GetString("topic")
			flags.parameters, _ = cmd.Flags().GetString("parameters")
			flags.content, _ = cmd.Flags().GetString("content")
			flags.contentFile, _ = cmd.Flags().GetString("content-file")
			req, err := flags.request()
			if err != nil {
				return err
			}
			svc, done, err := openRecordService(cmd)
			if err != nil {
				return err
			}
			defer done()
			result, err := op(svc, cmd, req)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		}
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the earliest record matching topic and parameters",
		RunE: run(func(svc service.RecordService, cmd *cobra.Command, req dto.RecordRequest) (repository.Result, error) {
			return svc.Retrieve(cmd.Context(), req)
		}),
	}
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Insert a new record",
		RunE: run(func(svc service.RecordService, cmd *cobra.Command, req dto.RecordRequest) (repository.Result, error) {
			return svc.Save(cmd.Context(), req)
		}),
	}
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the content of every matching record",
		RunE: run(func(svc service.RecordService, cmd *cobra.Command, req dto.RecordRequest) (repository.Result, error) {
			return svc.Update(cmd.Context(), req)
		}),
	}
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every matching record",
		RunE: run(func(svc service.RecordService, cmd *cobra.Command, req dto.RecordRequest) (repository.Result, error) {
			return svc.Delete(cmd.Context(), req)
		}),
	}

	for _, c := range []*cobra.Command{getCmd, saveCmd, updateCmd, deleteCmd} {
		c.Flags().String("topic", "", "Record topic (stock symbol)")
		c.Flags().String("parameters", "", "Record parameters, e.g. ₹100000-Moderate-Value")
		_ = c.MarkFlagRequired("topic")
		_ = c.MarkFlagRequired("parameters")
	}
	for _, c := range []*cobra.Command{saveCmd, updateCmd} {
		c.Flags().String("content", "", "Content to store")
		c.Flags().String("content-file", "", "Read content from a file, or - for stdin")
		c.MarkFlagsMutuallyExclusive("content", "content-file")
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print all records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openRecordService(cmd)
			if err != nil {
				return err
			}
			defer done()
			records, err := svc.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}

	recordsCmd.AddCommand(listCmd, getCmd, saveCmd, updateCmd, deleteCmd)
	return recordsCmd
}
