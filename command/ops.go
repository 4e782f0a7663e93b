package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-excel-response/export"
)

// BatchItem describes one export written by a batch run. Data accepts any
// shape export.ResolveSource understands; JSON batch files carry row lists
// or record lists.
type BatchItem struct {
	Filename  string `json:"filename"`
	SheetName string `json:"sheet_name,omitempty"`
	ForceCSV  bool   `json:"force_csv,omitempty"`
	Data      any    `json:"data"`
}

func (item BatchItem) options() export.Options {
	return export.Options{
		Filename:  item.Filename,
		SheetName: item.SheetName,
		ForceCSV:  item.ForceCSV,
	}
}

// BatchLoader loads batch items from a source.
type BatchLoader func(ctx context.Context) ([]BatchItem, error)

// BatchCommand wires CLI/Cron execution for writing exports to disk.
type BatchCommand struct {
	serializer *export.Serializer
	tracker    export.Tracker
	loader     BatchLoader
	outputDir  string
	cliConfig  gcmd.CLIConfig
	cronConfig gcmd.HandlerConfig
	limits     BatchLimits
	sleep      func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxItems    int
	MinInterval time.Duration
}

// WithBatchCLIConfig overrides CLI configuration.
func WithBatchCLIConfig(cfg gcmd.CLIConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cliConfig = cfg
	}
}

// WithBatchCronConfig overrides cron configuration.
func WithBatchCronConfig(cfg gcmd.HandlerConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cronConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchTracker records every written export.
func WithBatchTracker(tracker export.Tracker) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.tracker = tracker
	}
}

// NewWriteExportsCommand creates a CLI/Cron command that writes exports into outputDir.
func NewWriteExportsCommand(serializer *export.Serializer, loader BatchLoader, outputDir string, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		serializer: serializer,
		loader:     loader,
		outputDir:  outputDir,
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"exports-write"},
			Description: "Write table exports to disk",
			Group:       "exports",
		},
		cronConfig: gcmd.HandlerConfig{Expression: "0 0 * * *"},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// Execute handles WriteExports messages.
func (c *BatchCommand) Execute(ctx context.Context, msg WriteExports) error {
	records, err := c.run(ctx, msg.From, msg.OutputDir)
	if msg.Result != nil {
		*msg.Result = records
	}
	if res := gcmd.ResultFromContext[[]export.ExportRecord](ctx); res != nil {
		res.Store(records)
	}
	return err
}

// CronHandler writes the loader's exports on schedule.
func (c *BatchCommand) CronHandler() func() error {
	return func() error {
		_, err := c.run(context.Background(), "", "")
		return err
	}
}

// CronOptions returns cron configuration.
func (c *BatchCommand) CronOptions() gcmd.HandlerConfig {
	if c == nil {
		return gcmd.HandlerConfig{}
	}
	return c.cronConfig
}

// CLIHandler exposes the CLI handler.
func (c *BatchCommand) CLIHandler() any {
	return &batchCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *BatchCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

func (c *BatchCommand) run(ctx context.Context, from, outputDir string) ([]export.ExportRecord, error) {
	if c == nil {
		return nil, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.serializer == nil {
		return nil, errors.New("export serializer is required", errors.CategoryValidation).
			WithTextCode("SERIALIZER_REQUIRED")
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = c.outputDir
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, errors.New("output directory is required", errors.CategoryValidation).
			WithTextCode("OUTPUT_DIR_REQUIRED")
	}

	items, err := c.loadItems(ctx, from)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "create output directory failed").
			WithTextCode("OUTPUT_DIR_CREATE")
	}

	records := make([]export.ExportRecord, 0, len(items))
	for _, item := range items {
		if c.limits.MaxItems > 0 && len(records) >= c.limits.MaxItems {
			break
		}
		payload, err := c.serializer.Serialize(item.Data, item.options())
		if err != nil {
			return records, export.AsGoError(err)
		}
		target := filepath.Join(outputDir, payload.Filename)
		if err := writeFileAtomic(target, payload.Data); err != nil {
			return records, errors.Wrap(err, errors.CategoryExternal, "write export failed").
				WithTextCode("EXPORT_WRITE")
		}

		record := payload.Record()
		if c.tracker != nil {
			if err := c.tracker.Track(ctx, record); err != nil {
				return records, err
			}
		}
		records = append(records, record)
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return records, nil
}

// writeFileAtomic writes through a temp file so readers never see a partial export.
func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".export-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (c *BatchCommand) loadItems(ctx context.Context, from string) ([]BatchItem, error) {
	if strings.TrimSpace(from) != "" {
		return loadBatchItemsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type batchCLI struct {
	cmd  *BatchCommand
	From string `kong:"name='from',help='Path to a JSON list of exports to write'"`
	Out  string `kong:"name='out',help='Directory the exports are written to'"`
}

func (c *batchCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("batch command is required", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	_, err := c.cmd.run(context.Background(), c.From, c.Out)
	return err
}

func loadBatchItemsFromFile(path string) ([]BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var items []BatchItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return items, nil
}
