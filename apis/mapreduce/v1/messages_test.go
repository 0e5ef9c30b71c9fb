package mapreducev1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestReduceTaskWire(t *testing.T) {
	task := &ReduceTask{
		TaskId:            3,
		IntermediateFiles: []string{"mr-0-3", "mr-1-3"},
		State:             State_STATE_IN_PROGRESS,
	}
	b, err := task.Marshal()
	require.NoError(t, err)

	var got ReduceTask
	require.NoError(t, got.Unmarshal(b))
	assert.Equal(t, *task, got)
}

func TestAskForMapTaskResponseWire(t *testing.T) {
	resp := &AskForMapTaskResponse{Task: &MapTask{TaskId: 7, InputFile: "pg-1.txt"}}
	b, err := resp.Marshal()
	require.NoError(t, err)

	var got AskForMapTaskResponse
	require.NoError(t, got.Unmarshal(b))
	require.NotNil(t, got.Task)
	assert.Equal(t, *resp.Task, *got.Task)

	// an empty response carries no task
	require.NoError(t, got.Unmarshal(nil))
	assert.Nil(t, got.Task)
}

func TestZeroFieldsOmitted(t *testing.T) {
	b, err := (&FinishReduceTaskRequest{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = (&MapTask{TaskId: 1}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01}, b)
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b, err := (&FinishMapTaskRequest{TaskId: 2, TemporaryIntermediateFiles: []string{"a"}}).Marshal()
	require.NoError(t, err)
	b = protowire.AppendTag(b, 15, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)

	var got FinishMapTaskRequest
	require.NoError(t, got.Unmarshal(b))
	assert.Equal(t, int32(2), got.TaskId)
	assert.Equal(t, []string{"a"}, got.TemporaryIntermediateFiles)

	assert.NoError(t, (&AskForReduceTaskRequest{}).Unmarshal(b))
}

func TestTruncatedMessage(t *testing.T) {
	b, err := (&MapTask{InputFile: "pg-1.txt"}).Marshal()
	require.NoError(t, err)

	var got MapTask
	assert.Error(t, got.Unmarshal(b[:len(b)-2]))
}

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	b, err := c.Marshal(&FinishReduceTaskRequest{TaskId: 4})
	require.NoError(t, err)
	var got FinishReduceTaskRequest
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, int32(4), got.TaskId)

	_, err = c.Marshal("not a message")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "STATE_COMPLETED", State_STATE_COMPLETED.String())
	assert.Equal(t, "STATE_UNKNOWN", State(9).String())
}
