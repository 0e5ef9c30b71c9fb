package internal

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mapreducev1 "github.com/tahsinrahman/tuple-shuffle/apis/mapreduce/v1"
)

func TestFinishMapTaskValidation(t *testing.T) {
	c := NewCoordinator(NewCoordinatorConfig{
		InputFiles:    []string{"a", "b"},
		ReduceWorkers: 2,
		Timeout:       time.Minute,
	})
	ctx := context.Background()

	_, err := c.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{TaskId: 5, TemporaryIntermediateFiles: []string{"x", "y"}})
	assert.Error(t, err)
	_, err = c.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{TaskId: 0, TemporaryIntermediateFiles: []string{"x"}})
	assert.Error(t, err)
	_, err = c.FinishReduceTask(ctx, &mapreducev1.FinishReduceTaskRequest{TaskId: -1})
	assert.Error(t, err)
}

func TestReduceTaskAvailableAfterAllMaps(t *testing.T) {
	c := NewCoordinator(NewCoordinatorConfig{
		InputFiles:    []string{"a", "b"},
		ReduceWorkers: 2,
		Timeout:       time.Minute,
	})
	ctx := context.Background()

	_, err := c.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{TaskId: 0, TemporaryIntermediateFiles: []string{"mr-0-0", "mr-0-1"}})
	require.NoError(t, err)
	assert.Len(t, c.availableReduceTasks, 0)

	// a duplicate report is ignored
	_, err = c.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{TaskId: 0, TemporaryIntermediateFiles: []string{"dup-0", "dup-1"}})
	require.NoError(t, err)
	assert.Len(t, c.availableReduceTasks, 0)

	_, err = c.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{TaskId: 1, TemporaryIntermediateFiles: []string{"mr-1-0", "mr-1-1"}})
	require.NoError(t, err)
	require.Len(t, c.availableReduceTasks, 2)

	task := <-c.availableReduceTasks
	assert.Equal(t, []string{"mr-0-" + string(rune('0'+task.TaskId)), "mr-1-" + string(rune('0'+task.TaskId))}, task.IntermediateFiles)
	assert.False(t, c.Checker())

	for i := int32(0); i < 2; i++ {
		_, err = c.FinishReduceTask(ctx, &mapreducev1.FinishReduceTaskRequest{TaskId: i})
		require.NoError(t, err)
	}
	assert.True(t, c.Checker())
}

func TestCoordinatorAndWorker(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for i, contents := range []string{
		"bob 2020 05\nalex 2021 01\n",
		"alex 2019 12\nbob 2018 02\n",
		"alex 2019 03\ncarol 2000 01\n",
	} {
		name := filepath.Join(dir, "input"+string(rune('0'+i)))
		require.NoError(t, os.WriteFile(name, []byte(contents), 0o644))
		inputs = append(inputs, name)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	c := NewCoordinator(NewCoordinatorConfig{
		InputFiles:    inputs,
		ReduceWorkers: 3,
		Timeout:       time.Minute,
	})
	served := make(chan error, 1)
	go func() { served <- c.Serve(listener) }()

	w, err := NewWorker(NewWorkerConfig{
		ServerAddress:        listener.Addr().String(),
		ReduceWorkers:        3,
		OutputFilePrefix:     filepath.Join(dir, "mr-out-"),
		IntermediateDir:      dir,
		CompressIntermediate: true,
		Plan:                 testPlan(t, "0", "0,1,2", "0"),
		MapFunc:              mapPeople,
		ReduceFunc:           reduceJoin,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, w.Run(ctx))

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("coordinator did not stop")
	}

	var lines []string
	for i := 0; i < 3; i++ {
		out, err := os.ReadFile(filepath.Join(dir, "mr-out-"+string(rune('0'+i))))
		require.NoError(t, err)
		for _, l := range strings.Split(string(out), "\n") {
			if l != "" {
				lines = append(lines, l)
			}
		}
	}
	sort.Strings(lines)
	assert.Equal(t, []string{
		"(alex, 2019, 03) alex 2019 03|alex 2019 12|alex 2021 01",
		"(bob, 2018, 02) bob 2018 02|bob 2020 05",
		"(carol, 2000, 01) carol 2000 01",
	}, lines)
}
