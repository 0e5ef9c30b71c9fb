package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mapreducev1 "github.com/tahsinrahman/tuple-shuffle/apis/mapreduce/v1"
	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

// mapPeople turns "name year month" lines into (name, year, month) keys.
func mapPeople(_ string, contents string) []KeyValue {
	var kva []KeyValue
	for _, line := range strings.Split(strings.TrimSpace(contents), "\n") {
		f := strings.Fields(line)
		key := tuple.MustOf(f[0], f[1], f[2])
		kva = append(kva, KeyValue{Key: key, Value: line})
	}
	return kva
}

func reduceJoin(_ *tuple.Tuple, values []string) string {
	return strings.Join(values, "|")
}

func testPlan(t *testing.T, partition, sort, group string) *shuffle.Plan {
	t.Helper()
	plan, err := shuffle.NewPlan(shuffle.Properties{
		shuffle.PartitionerIndicesConfigName: partition,
		shuffle.SortIndicesConfigName:        sort,
		shuffle.GroupIndicesConfigName:       group,
	})
	require.NoError(t, err)
	return plan
}

func testWorker(t *testing.T, dir string, reduceTasks int, compress bool, plan *shuffle.Plan) *Worker {
	t.Helper()
	w, err := NewWorker(NewWorkerConfig{
		ReduceWorkers:        reduceTasks,
		OutputFilePrefix:     filepath.Join(dir, "mr-out-"),
		IntermediateDir:      dir,
		CompressIntermediate: compress,
		Plan:                 plan,
		MapFunc:              mapPeople,
		ReduceFunc:           reduceJoin,
	})
	require.NoError(t, err)
	return w
}

func TestNewWorkerValidation(t *testing.T) {
	_, err := NewWorker(NewWorkerConfig{ReduceWorkers: 1})
	assert.Error(t, err)

	_, err = NewWorker(NewWorkerConfig{Plan: testPlan(t, "0", "0", "0")})
	assert.Error(t, err)
}

func TestSecondarySort(t *testing.T) {
	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		input := filepath.Join(dir, "input.txt")
		require.NoError(t, os.WriteFile(input, []byte("bob 2020 05\nalex 2021 01\nalex 2019 12\nbob 2018 02\nalex 2019 03\n"), 0o644))

		w := testWorker(t, dir, 2, compress, testPlan(t, "0", "0,1,2", "0"))

		files, err := w.doMapTask(&mapreducev1.MapTask{TaskId: 0, InputFile: input})
		require.NoError(t, err)
		require.Len(t, files, 2)

		var lines []string
		for i, f := range files {
			require.NoError(t, w.doReduceTask(context.Background(), &mapreducev1.ReduceTask{TaskId: int32(i), IntermediateFiles: []string{f}}))
			out, err := os.ReadFile(filepath.Join(dir, "mr-out-"+string(rune('0'+i))))
			require.NoError(t, err)
			lines = append(lines, strings.Split(strings.TrimSpace(string(out)), "\n")...)
		}

		var nonEmpty []string
		for _, l := range lines {
			if l != "" {
				nonEmpty = append(nonEmpty, l)
			}
		}
		assert.ElementsMatch(t, []string{
			"(alex, 2019, 03) alex 2019 03|alex 2019 12|alex 2021 01",
			"(bob, 2018, 02) bob 2018 02|bob 2020 05",
		}, nonEmpty, "compress=%v", compress)
	}
}

func TestReduceAcrossMapOutputs(t *testing.T) {
	dir := t.TempDir()
	plan := testPlan(t, "0", "0,2", "0")
	w := testWorker(t, dir, 1, false, plan)

	var files []string
	for i, contents := range []string{"carol 1 9\ncarol 1 3\n", "carol 2 1\n"} {
		input := filepath.Join(dir, "input"+string(rune('0'+i)))
		require.NoError(t, os.WriteFile(input, []byte(contents), 0o644))
		out, err := w.doMapTask(&mapreducev1.MapTask{TaskId: int32(i), InputFile: input})
		require.NoError(t, err)
		files = append(files, out...)
	}

	require.NoError(t, w.doReduceTask(context.Background(), &mapreducev1.ReduceTask{TaskId: 0, IntermediateFiles: files}))
	out, err := os.ReadFile(filepath.Join(dir, "mr-out-0"))
	require.NoError(t, err)
	// sorted on name then month; the year is ignored
	assert.Equal(t, "(carol, 2, 1) carol 2 1|carol 1 3|carol 1 9\n", string(out))
}

func TestMapTaskMissingInput(t *testing.T) {
	dir := t.TempDir()
	w := testWorker(t, dir, 1, false, testPlan(t, "0", "0", "0"))
	_, err := w.doMapTask(&mapreducev1.MapTask{InputFile: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestMapTaskRejectsMissingKey(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	w := testWorker(t, dir, 3, false, testPlan(t, "0", "0", "0"))
	w.mapFunc = func(string, string) []KeyValue { return []KeyValue{{Value: "x"}} }

	_, err := w.doMapTask(&mapreducev1.MapTask{InputFile: input})
	assert.Error(t, err)

	// partial intermediate files are removed
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
