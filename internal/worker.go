package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	mapreducev1 "github.com/tahsinrahman/tuple-shuffle/apis/mapreduce/v1"
	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

type MapFunc func(string, string) []KeyValue
type ReduceFunc func(*tuple.Tuple, []string) string

type Worker struct {
	id                   string
	serverAddr           string
	reduceWorkers        int
	outputFilePrefix     string
	intermediateDir      string
	compressIntermediate bool
	plan                 *shuffle.Plan
	mapFunc              MapFunc
	reduceFunc           ReduceFunc
	logger               zerolog.Logger
}

type NewWorkerConfig struct {
	ServerAddress    string
	ReduceWorkers    int
	OutputFilePrefix string
	// IntermediateDir defaults to the system temporary directory.
	IntermediateDir      string
	CompressIntermediate bool
	Plan                 *shuffle.Plan
	MapFunc              MapFunc
	ReduceFunc           ReduceFunc
}

func NewWorker(conf NewWorkerConfig) (*Worker, error) {
	if conf.Plan == nil {
		return nil, errors.New("worker needs a shuffle plan")
	}
	if conf.ReduceWorkers <= 0 {
		return nil, errors.Errorf("invalid number of reduce tasks: %d", conf.ReduceWorkers)
	}
	dir := conf.IntermediateDir
	if dir == "" {
		dir = os.TempDir()
	}

	id := uuid.NewString()
	return &Worker{
		id:                   id,
		serverAddr:           conf.ServerAddress,
		reduceWorkers:        conf.ReduceWorkers,
		outputFilePrefix:     conf.OutputFilePrefix,
		intermediateDir:      dir,
		compressIntermediate: conf.CompressIntermediate,
		plan:                 conf.Plan,
		mapFunc:              conf.MapFunc,
		reduceFunc:           conf.ReduceFunc,
		logger:               zerolog.New(os.Stdout).With().Timestamp().Caller().Str("name", "worker").Str("worker", id).Logger(),
	}, nil
}

func (w *Worker) Run(ctx context.Context) error {
	log := w.logger

	cc, err := grpc.Dial(w.serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		mapreducev1.WithCodec(),
	)
	if err != nil {
		return err
	}
	defer cc.Close()

	client := mapreducev1.NewMapReduceServiceClient(cc)

	log.Info().Str("plan", fmt.Sprint(w.plan.Properties())).Msg("starting worker")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.RunMapTasks(ctx, client)
	})
	g.Go(func() error {
		return w.RunReduceTasks(ctx, client)
	})

	if err := g.Wait(); err != nil {
		log.Err(err).Msg("failed waiting for map and reduce tasks")
		return err
	}

	return nil
}

func (w *Worker) RunMapTasks(ctx context.Context, client mapreducev1.MapReduceServiceClient) error {
	log := w.logger

	stream, err := client.AskForMapTask(ctx, &mapreducev1.AskForMapTaskRequest{})
	if err != nil {
		return err
	}
	for {
		select {
		case <-stream.Context().Done():
			return nil
		default:
		}

		resp, err := stream.Recv()
		if err == io.EOF {
			log.Info().Msg("no more available map tasks")
			return nil
		}
		if err != nil {
			log.Err(err).Msg("failed to receive map task")
			return err
		}
		if resp.Task == nil {
			continue
		}

		go func() {
			intermediateFiles, err := w.doMapTask(resp.Task)
			if err != nil {
				log.Err(err).Interface("task", resp.Task).Msg("failed performing map")
				return
			}

			_, err = client.FinishMapTask(ctx, &mapreducev1.FinishMapTaskRequest{
				TaskId:                     resp.Task.TaskId,
				TemporaryIntermediateFiles: intermediateFiles,
			})
			if err != nil {
				log.Err(err).Msg("failed to ack finished map task")
				return
			}
		}()
	}
}

func (w *Worker) RunReduceTasks(ctx context.Context, client mapreducev1.MapReduceServiceClient) error {
	log := w.logger

	stream, err := client.AskForReduceTask(ctx, &mapreducev1.AskForReduceTaskRequest{})
	if err != nil {
		return err
	}
	for {
		select {
		case <-stream.Context().Done():
			return nil
		default:
		}

		resp, err := stream.Recv()
		if err == io.EOF {
			log.Info().Msg("no more available reduce tasks")
			return nil
		}
		if err != nil {
			log.Err(err).Msg("failed to receive reduce task")
			return err
		}
		if resp.Task == nil {
			continue
		}

		go func() {
			if err := w.doReduceTask(ctx, resp.Task); err != nil {
				log.Err(err).Msg("failed to perform reduce task")
				return
			}

			_, err := client.FinishReduceTask(ctx, &mapreducev1.FinishReduceTaskRequest{
				TaskId: resp.Task.TaskId,
			})
			if err != nil {
				log.Err(err).Msg("failed to ack finished reduce task")
				return
			}
		}()
	}
}

// doMapTask runs the map function over the task's input and spreads its
// records over one intermediate file per reduce task.
func (w *Worker) doMapTask(task *mapreducev1.MapTask) ([]string, error) {
	log := w.logger.With().Int32("task", task.TaskId).Logger()
	log.Info().Str("input", task.InputFile).Msg("starting map task")

	contents, err := os.ReadFile(task.InputFile)
	if err != nil {
		log.Err(err).Msg("failed to read file")
		return nil, err
	}

	intermediate := w.mapFunc(task.InputFile, string(contents))

	writers := make([]*recordWriter, 0, w.reduceWorkers)
	cleanup := func() {
		for _, rw := range writers {
			rw.file.Close()
			os.Remove(rw.name)
		}
	}

	for i := 0; i < w.reduceWorkers; i++ {
		rw, err := createRecordWriter(intermediateFileName(w.intermediateDir, task.TaskId, i), w.compressIntermediate)
		if err != nil {
			log.Err(err).Msg("failed to create intermediate file")
			cleanup()
			return nil, err
		}
		writers = append(writers, rw)
	}

	for _, kv := range intermediate {
		if kv.Key == nil {
			err := errors.Errorf("map emitted a record without key for %s", task.InputFile)
			log.Err(err).Msg("failed to partition record")
			cleanup()
			return nil, err
		}
		index := w.plan.Partitioner.Partition(kv.Key, w.reduceWorkers)
		if err := writers[index].Write(kv); err != nil {
			log.Err(err).Msg("failed to write intermediate files")
			cleanup()
			return nil, err
		}
	}

	intermediateFiles := make([]string, 0, len(writers))
	var total int64
	for _, rw := range writers {
		size, err := rw.Close()
		if err != nil {
			log.Err(err).Str("file", rw.name).Msg("failed to flush")
			cleanup()
			return nil, err
		}
		total += size
		intermediateFiles = append(intermediateFiles, rw.name)
	}

	log.Info().
		Int("records", len(intermediate)).
		Str("written", humanize.Bytes(uint64(total))).
		Bool("compressed", w.compressIntermediate).
		Msg("successfully performed map task")
	return intermediateFiles, nil
}

// doReduceTask sorts the partition's records with the sort comparator, cuts
// them into groups with the group comparator and reduces every group.
func (w *Worker) doReduceTask(ctx context.Context, task *mapreducev1.ReduceTask) error {
	log := w.logger.With().Int32("task", task.TaskId).Logger()
	log.Info().Int("files", len(task.IntermediateFiles)).Msg("starting reduce task")

	intermediate, err := readIntermediateFiles(ctx, task.IntermediateFiles)
	if err != nil {
		log.Err(err).Msg("failed to read intermediate files")
		return err
	}
	sortKeyValues(intermediate, w.plan.Sort)

	outputFileName := fmt.Sprintf("%s%d", w.outputFilePrefix, task.TaskId)
	outputFile, err := os.Create(outputFileName)
	if err != nil {
		log.Err(err).Msg("failed to create output file")
		return err
	}
	defer outputFile.Close()
	out := bufio.NewWriter(outputFile)

	groups := 0
	err = groupKeyValues(intermediate, w.plan.Group, func(key *tuple.Tuple, values []string) error {
		groups++
		output := w.reduceFunc(key, values)

		// this is the correct format for each line of Reduce output.
		_, err := fmt.Fprintf(out, "%v %v\n", key, output)
		return err
	})
	if err != nil {
		log.Err(err).Msg("failed to write to output file")
		return err
	}
	if err := out.Flush(); err != nil {
		log.Err(err).Msg("failed to flush output file")
		return err
	}
	if err := outputFile.Close(); err != nil {
		log.Err(err).Msg("failed to close output file")
		return err
	}

	log.Info().Int("records", len(intermediate)).Int("groups", groups).Str("output", outputFileName).Msg("successfully performed reduce task")
	return nil
}
