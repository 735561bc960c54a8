package simulator

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/chrisdamba/customsim/internal/cloudwriter"
	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/output"
	"github.com/chrisdamba/customsim/internal/simulator/producers"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// jsonNumber keeps integers intact when events are decoded into maps
var jsonNumber = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NoopOutput discards every message
type NoopOutput struct{}

func (n *NoopOutput) WriteMessage(topic string, msg []byte) error { return nil }
func (n *NoopOutput) Close() error                                { return nil }

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// MultiOutput fans every message out to several destinations
type MultiOutput struct {
	outputs []OutputDestination
}

func NewMultiOutput(outputs ...OutputDestination) *MultiOutput {
	return &MultiOutput{outputs: outputs}
}

func (m *MultiOutput) WriteMessage(topic string, msg []byte) error {
	for _, out := range m.outputs {
		if err := out.WriteMessage(topic, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiOutput) Close() error {
	var errs []error
	for _, out := range m.outputs {
		errs = append(errs, out.Close())
	}
	return errors.Join(errs...)
}

// partitionPath derives year=/month=/day=/hour= directories from the event timestamp
func partitionPath(msg []byte) (string, error) {
	ts := json.Get(msg, "timestamp")
	if ts.ValueType() != jsoniter.NumberValue {
		return "", fmt.Errorf("invalid timestamp")
	}

	eventTime := time.Unix(ts.ToInt64(), 0).UTC()
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour()), nil
}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	file, ok := j.files[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	var errs []error
	for _, file := range j.files {
		errs = append(errs, file.Close())
	}
	return errors.Join(errs...)
}

type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := jsonNumber.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(c.basePath, c.folder, topic, partition)

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	csvWriter, ok := c.writers[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter

		// headers on a new file
		headers := c.getHeaders(event)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[fileKey] = headers
	}

	row := make([]string, len(c.headers[fileKey]))
	for i, header := range c.headers[fileKey] {
		if value, ok := event[header]; ok {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) getHeaders(event map[string]interface{}) []string {
	headers := make([]string, 0, len(event))
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	var errs []error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		errs = append(errs, csvWriter.Error(), c.files[key].Close())
	}
	return errors.Join(errs...)
}

type ParquetOutput struct {
	basePath           string
	folder             string
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open returns the file itself; the object is created on upload.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

func NewParquetOutput(basePath, folder string) *ParquetOutput {
	p := &ParquetOutput{
		basePath: basePath,
		folder:   folder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	// stale files from a previous run would mix with this one
	p.cleanup()

	return p
}

func NewCloudParquetOutput(folder, bucket string, factory cloudwriter.CloudWriterFactory) *ParquetOutput {
	return &ParquetOutput{
		folder:             folder,
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	row, err := decodeEventRow(topic, msg)
	if err != nil {
		return err
	}

	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}

	writerKey := fmt.Sprintf("%s_%s", topic, partition)
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) cleanup() {
	fullPath := filepath.Join(p.basePath, p.folder)
	err := filepath.Walk(fullPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".parquet" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("error cleaning up parquet files")
	}
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	obj, err := schemaObject(topic)
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, obj, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	var errs []error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			errs = append(errs, fmt.Errorf("error closing writer for key %s: %w", key, err))
		}
		if err := p.files[key].Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file for key %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Simulator) determineOutputDestination(ctx context.Context) (OutputDestination, error) {
	var outputs []OutputDestination

	switch s.Config.OutputFormat {
	case "", models.OutputFormatNone:
	case models.OutputFormatConsole:
		outputs = append(outputs, NewConsoleOutput(os.Stdout))
	case models.OutputFormatJSON:
		outputs = append(outputs, NewJSONOutput(s.Config.OutputPath, s.Config.OutputFolder))
	case models.OutputFormatCSV:
		outputs = append(outputs, NewCSVOutput(s.Config.OutputPath, s.Config.OutputFolder))
	case models.OutputFormatParquet:
		if s.Config.OutputDestination == models.OutputDestinationS3 {
			factory, err := cloudwriter.NewS3WriterFactory(ctx, s.Config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			outputs = append(outputs, NewCloudParquetOutput(s.Config.OutputFolder, s.Config.CloudStorage.BucketName, factory))
		} else {
			outputs = append(outputs, NewParquetOutput(s.Config.OutputPath, s.Config.OutputFolder))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Config.OutputFormat)
	}

	if s.Config.KafkaEnabled {
		producer, err := producers.NewSaramaProducer(s.Config)
		if err != nil {
			return nil, errors.Join(err, NewMultiOutput(outputs...).Close())
		}
		outputs = append(outputs, producer)
	}

	if s.Config.PostgresEnabled {
		pg, err := output.NewPostgresOutput(ctx, s.Config)
		if err != nil {
			return nil, errors.Join(err, NewMultiOutput(outputs...).Close())
		}
		outputs = append(outputs, pg)
	}

	switch len(outputs) {
	case 0:
		return &NoopOutput{}, nil
	case 1:
		return outputs[0], nil
	default:
		return NewMultiOutput(outputs...), nil
	}
}
