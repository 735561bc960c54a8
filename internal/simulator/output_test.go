package simulator_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/customsim/internal/cloudwriter"
	"github.com/chrisdamba/customsim/internal/models"
	"github.com/chrisdamba/customsim/internal/simulator"
)

// 2024-01-01T08:00:00Z
const recordMsg = `{"timestamp":1704096000,"runId":"run-1","agentId":3,"groupId":"g1","sequence":0,"adults":2,"children":1,"domestic":true,"waitMinutes":0,"processingMinutes":3,"startMinute":0,"endMinute":3}`

const shiftMsg = `{"timestamp":1704124800,"runId":"run-1","agentId":3,"groupsServed":100,"workedMinutes":480,"hours":8,"payroll":160}`

const partition = "year=2024/month=01/day=01/hour=08"

func Test_JSONOutput_WritesPartitionedLines(t *testing.T) {
	dir := t.TempDir()
	out := simulator.NewJSONOutput(dir, "run")

	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.WriteMessage(models.TopicAgentShifts, []byte(shiftMsg)))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "run", models.TopicServiceRecords, partition, "data.json"))
	require.NoError(t, err)
	assert.Equal(t, recordMsg+"\n"+recordMsg+"\n", string(data))

	// 16:00 the same day
	_, err = os.Stat(filepath.Join(dir, "run", models.TopicAgentShifts, "year=2024/month=01/day=01/hour=16", "data.json"))
	assert.NoError(t, err)
}

func Test_JSONOutput_RejectsMissingTimestamp(t *testing.T) {
	out := simulator.NewJSONOutput(t.TempDir(), "run")
	defer out.Close()

	assert.Error(t, out.WriteMessage(models.TopicServiceRecords, []byte(`{"runId":"run-1"}`)))
	assert.Error(t, out.WriteMessage(models.TopicServiceRecords, []byte(`{"timestamp":"yesterday"}`)))
}

func Test_CSVOutput_WritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	out := simulator.NewCSVOutput(dir, "run")

	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.Close())

	file, err := os.Open(filepath.Join(dir, "run", models.TopicServiceRecords, partition, "data.csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "adults", header[0])
	assert.Contains(t, header, "timestamp")

	values := make(map[string]string, len(header))
	for i, name := range header {
		values[name] = rows[1][i]
	}
	assert.Equal(t, "1704096000", values["timestamp"])
	assert.Equal(t, "true", values["domestic"])
	assert.Equal(t, "g1", values["groupId"])
	assert.Equal(t, rows[1], rows[2])
}

func Test_ParquetOutput_LocalFilesReadBack(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "run", "old.parquet")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), os.ModePerm))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	out := simulator.NewParquetOutput(dir, "run")
	_, err := os.Stat(stale)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.Close())

	fr, err := local.NewLocalFileReader(filepath.Join(dir, "run", models.TopicServiceRecords, partition, "data.parquet"))
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(models.ServiceRecordEvent), 4)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(2), pr.GetNumRows())
	rows := make([]models.ServiceRecordEvent, 2)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, "g1", rows[0].GroupID)
	assert.Equal(t, int64(3), rows[0].AgentID)
	assert.Equal(t, int64(3), rows[1].ProcessingMinutes)
	assert.True(t, rows[1].Domestic)
}

func Test_ParquetOutput_RejectsUnknownTopic(t *testing.T) {
	out := simulator.NewParquetOutput(t.TempDir(), "run")
	defer out.Close()

	err := out.WriteMessage("passengers", []byte(recordMsg))
	assert.ErrorIs(t, err, simulator.ErrUnknownTopic)
}

type bufferWriter struct {
	buf    *bytes.Buffer
	closed bool
}

func (b *bufferWriter) Write(data []byte) (int, error) { return b.buf.Write(data) }
func (b *bufferWriter) Close() error {
	b.closed = true
	return nil
}

type memoryWriterFactory struct {
	objects map[string]*bufferWriter
}

func (f *memoryWriterFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	w := &bufferWriter{buf: &bytes.Buffer{}}
	f.objects[bucket+"/"+objectPath] = w
	return w, nil
}

func Test_ParquetOutput_CloudObjects(t *testing.T) {
	factory := &memoryWriterFactory{objects: make(map[string]*bufferWriter)}
	out := simulator.NewCloudParquetOutput("run", "bucket", factory)

	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	require.NoError(t, out.WriteMessage(models.TopicAgentShifts, []byte(shiftMsg)))
	require.NoError(t, out.Close())

	require.Len(t, factory.objects, 2)
	object, ok := factory.objects["bucket/run/service_records/"+partition+"/data.parquet"]
	require.True(t, ok)
	assert.True(t, object.closed)

	data := object.buf.Bytes()
	assert.True(t, bytes.HasPrefix(data, []byte("PAR1")))
	assert.True(t, bytes.HasSuffix(data, []byte("PAR1")))
}

type failingOutput struct {
	writeErr, closeErr error
	closed             bool
}

func (f *failingOutput) WriteMessage(topic string, msg []byte) error { return f.writeErr }
func (f *failingOutput) Close() error {
	f.closed = true
	return f.closeErr
}

func Test_MultiOutput_FansOutAndJoinsCloseErrors(t *testing.T) {
	first, second := &memoryOutput{}, &memoryOutput{}
	out := simulator.NewMultiOutput(first, second)

	require.NoError(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	assert.Len(t, first.messages, 1)
	assert.Len(t, second.messages, 1)

	closeErr := errors.New("disk gone")
	broken := &failingOutput{writeErr: errors.New("refused"), closeErr: closeErr}
	out = simulator.NewMultiOutput(first, broken, second)

	assert.Error(t, out.WriteMessage(models.TopicServiceRecords, []byte(recordMsg)))
	assert.Len(t, second.messages, 1)

	err := out.Close()
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, first.closed)
	assert.True(t, broken.closed)
	assert.True(t, second.closed)
}

func Test_ConsoleOutput_PrefixesTopic(t *testing.T) {
	var buf bytes.Buffer
	out := simulator.NewConsoleOutput(&buf)

	require.NoError(t, out.WriteMessage(models.TopicAgentShifts, []byte(shiftMsg)))
	require.NoError(t, out.Close())

	assert.Equal(t, "[agent_shifts] "+shiftMsg+"\n", buf.String())
}
