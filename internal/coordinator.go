package internal

import (
	"context"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	mapreducev1 "github.com/tahsinrahman/tuple-shuffle/apis/mapreduce/v1"
)

type NewCoordinatorConfig struct {
	ListenAddress string
	InputFiles    []string
	ReduceWorkers int
	// Timeout after which an unfinished task is handed out again.
	Timeout time.Duration
}

func NewCoordinator(config NewCoordinatorConfig) *Coordinator {
	var mapTasks []*mapreducev1.MapTask
	for i, f := range config.InputFiles {
		mapTasks = append(mapTasks, &mapreducev1.MapTask{
			TaskId:    int32(i),
			InputFile: f,
			State:     mapreducev1.State_STATE_IDLE_UNSPECIFIED,
		})
	}

	var reduceTasks []*mapreducev1.ReduceTask
	for i := 0; i < config.ReduceWorkers; i++ {
		reduceTasks = append(reduceTasks, &mapreducev1.ReduceTask{
			TaskId:            int32(i),
			IntermediateFiles: nil,
			State:             mapreducev1.State_STATE_IDLE_UNSPECIFIED,
		})
	}

	mapTasksCh := make(chan *mapreducev1.MapTask, len(mapTasks))
	for _, t := range mapTasks {
		mapTasksCh <- t
	}
	reduceTasksCh := make(chan *mapreducev1.ReduceTask, len(reduceTasks))

	return &Coordinator{
		listenAddr:           config.ListenAddress,
		mapTasks:             mapTasks,
		reduceTasks:          reduceTasks,
		availableMapTasks:    mapTasksCh,
		availableReduceTasks: reduceTasksCh,
		reduceWorkerCount:    config.ReduceWorkers,
		logger:               zerolog.New(os.Stdout).With().Caller().Timestamp().Str("name", "coordinator").Logger(),

		timeout:               config.Timeout,
		inProgressMapTasks:    make(chan int32, len(mapTasks)),
		inProgressReduceTasks: make(chan int32, len(reduceTasks)),
	}
}

type Coordinator struct {
	mu                   sync.RWMutex
	listenAddr           string
	mapTasks             []*mapreducev1.MapTask
	reduceTasks          []*mapreducev1.ReduceTask
	availableMapTasks    chan *mapreducev1.MapTask
	availableReduceTasks chan *mapreducev1.ReduceTask
	reduceWorkerCount    int
	logger               zerolog.Logger

	timeout               time.Duration
	inProgressMapTasks    chan int32
	inProgressReduceTasks chan int32
}

func (c *Coordinator) Run() error {
	log := c.logger

	listener, err := net.Listen("tcp", c.listenAddr)
	if err != nil {
		log.Err(err).Msg("failed to create listener")
		return err
	}
	return c.Serve(listener)
}

// Serve hands out tasks on listener until every map and reduce task has
// completed.
func (c *Coordinator) Serve(listener net.Listener) error {
	log := c.logger

	srv := grpc.NewServer()
	mapreducev1.RegisterMapReduceServiceServer(srv, c)

	g := errgroup.Group{}
	g.Go(func() error {
		// start the grpc server
		log.Info().Str("addr", listener.Addr().String()).Int("map_tasks", len(c.mapTasks)).Int("reduce_tasks", c.reduceWorkerCount).Msg("starting server")
		if err := srv.Serve(listener); err != nil {
			srv.GracefulStop()
			return err
		}
		return nil
	})
	g.Go(func() error {
		c.ReAssignMap()
		return nil
	})
	g.Go(func() error {
		c.ReAssignReduce()
		return nil
	})
	g.Go(func() error {
		c.Check()
		log.Info().Msg("all tasks completed, stopping server")
		srv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Err(err).Msg("failed coordinator")
		return err
	}

	return nil
}

func (c *Coordinator) Check() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if c.Checker() {
			return
		}
	}
}

func (c *Coordinator) Checker() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.mapTasks {
		if t.State != mapreducev1.State_STATE_COMPLETED {
			return false
		}
	}
	for _, t := range c.reduceTasks {
		if t.State != mapreducev1.State_STATE_COMPLETED {
			return false
		}
	}

	return true
}

func (c *Coordinator) AskForMapTask(_ *mapreducev1.AskForMapTaskRequest, stream mapreducev1.MapReduceService_AskForMapTaskServer) error {
	log := c.logger

	for {
		var task *mapreducev1.MapTask
		var ok bool
		select {
		case <-stream.Context().Done():
			return nil
		case task, ok = <-c.availableMapTasks:
		}
		if !ok {
			// channel closed
			log.Info().Msg("no more map task to assign")
			return nil
		}
		log := log.With().Int32("task", task.TaskId).Logger()

		c.mu.Lock()
		if task.State == mapreducev1.State_STATE_COMPLETED {
			// a timed out attempt finished after all
			c.mu.Unlock()
			continue
		}
		task.State = mapreducev1.State_STATE_IN_PROGRESS
		assigned := *task
		c.inProgressMapTasks <- task.TaskId
		c.mu.Unlock()

		log.Info().Str("input", assigned.InputFile).Msg("assigning map task")
		err := stream.Send(&mapreducev1.AskForMapTaskResponse{
			Task: &assigned,
		})

		if err != nil {
			log.Err(err).Msg("failed to send map task to worker")
			return err
		}
	}
}

func (c *Coordinator) AskForReduceTask(_ *mapreducev1.AskForReduceTaskRequest, stream mapreducev1.MapReduceService_AskForReduceTaskServer) error {
	log := c.logger
	for {
		var task *mapreducev1.ReduceTask
		var ok bool
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case task, ok = <-c.availableReduceTasks:
		}
		if !ok {
			// channel closed
			log.Info().Msg("no more reduce task to assign")
			return nil
		}

		c.mu.Lock()
		if task.State == mapreducev1.State_STATE_COMPLETED {
			c.mu.Unlock()
			continue
		}
		task.State = mapreducev1.State_STATE_IN_PROGRESS
		assigned := mapreducev1.ReduceTask{
			TaskId:            task.TaskId,
			IntermediateFiles: append([]string(nil), task.IntermediateFiles...),
			State:             task.State,
		}
		c.inProgressReduceTasks <- task.TaskId
		c.mu.Unlock()

		log.Info().Int32("task", assigned.TaskId).Int("files", len(assigned.IntermediateFiles)).Msg("assigning reduce task")
		err := stream.Send(&mapreducev1.AskForReduceTaskResponse{
			Task: &assigned,
		})
		if err != nil {
			log.Err(err).Msg("failed to send reduce task to worker")
			return err
		}
	}
}

func (c *Coordinator) FinishMapTask(_ context.Context, req *mapreducev1.FinishMapTaskRequest) (*mapreducev1.FinishMapTaskResponse, error) {
	log := c.logger.With().Int32("task", req.TaskId).Logger()

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.TaskId < 0 || int(req.TaskId) >= len(c.mapTasks) {
		return nil, status.Errorf(codes.InvalidArgument, "unknown map task %d", req.TaskId)
	}
	if len(req.TemporaryIntermediateFiles) != len(c.reduceTasks) {
		return nil, status.Errorf(codes.InvalidArgument, "map task %d reported %d intermediate files, expected %d",
			req.TaskId, len(req.TemporaryIntermediateFiles), len(c.reduceTasks))
	}

	if c.mapTasks[req.TaskId].State == mapreducev1.State_STATE_COMPLETED {
		log.Info().Msg("map task already finished")
		return &mapreducev1.FinishMapTaskResponse{}, nil
	}

	log.Info().Msg("finished map task")

	c.mapTasks[req.TaskId].State = mapreducev1.State_STATE_COMPLETED
	for i, f := range req.TemporaryIntermediateFiles {
		c.reduceTasks[i].IntermediateFiles = append(c.reduceTasks[i].IntermediateFiles, f)
		if len(c.reduceTasks[i].IntermediateFiles) == len(c.mapTasks) {
			c.availableReduceTasks <- c.reduceTasks[i]
		}
	}

	allCompleted := true
	for _, t := range c.mapTasks {
		if t.State != mapreducev1.State_STATE_COMPLETED {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		close(c.availableMapTasks)
		close(c.inProgressMapTasks)
	}

	return &mapreducev1.FinishMapTaskResponse{}, nil
}

func (c *Coordinator) FinishReduceTask(_ context.Context, req *mapreducev1.FinishReduceTaskRequest) (*mapreducev1.FinishReduceTaskResponse, error) {
	log := c.logger.With().Int32("task", req.TaskId).Logger()

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.TaskId < 0 || int(req.TaskId) >= len(c.reduceTasks) {
		return nil, status.Errorf(codes.InvalidArgument, "unknown reduce task %d", req.TaskId)
	}

	if c.reduceTasks[req.TaskId].State == mapreducev1.State_STATE_COMPLETED {
		log.Info().Msg("reduce task already finished")
		return &mapreducev1.FinishReduceTaskResponse{}, nil
	}

	log.Info().Msg("finished reduce task")
	c.reduceTasks[req.TaskId].State = mapreducev1.State_STATE_COMPLETED

	allCompleted := true
	for _, t := range c.reduceTasks {
		if t.State != mapreducev1.State_STATE_COMPLETED {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		close(c.availableReduceTasks)
		close(c.inProgressReduceTasks)
	}

	return &mapreducev1.FinishReduceTaskResponse{}, nil
}

func (c *Coordinator) ReAssignMap() {
	c.reassign(c.inProgressMapTasks, "map", func(task int32) bool {
		t := c.mapTasks[task]
		if t.State == mapreducev1.State_STATE_COMPLETED {
			return false
		}
		t.State = mapreducev1.State_STATE_IDLE_UNSPECIFIED
		c.availableMapTasks <- t
		return true
	})
}

func (c *Coordinator) ReAssignReduce() {
	c.reassign(c.inProgressReduceTasks, "reduce", func(task int32) bool {
		t := c.reduceTasks[task]
		if t.State == mapreducev1.State_STATE_COMPLETED {
			return false
		}
		t.State = mapreducev1.State_STATE_IDLE_UNSPECIFIED
		c.availableReduceTasks <- t
		return true
	})
}

// reassign watches every task id received on inProgress and calls requeue,
// with the lock held, once the task outlives the timeout. requeue reports
// whether the task was handed back.
func (c *Coordinator) reassign(inProgress <-chan int32, kind string, requeue func(task int32) bool) {
	log := c.logger

	wg := sync.WaitGroup{}
	for task := range inProgress {
		wg.Add(1)
		go func(task int32) {
			defer wg.Done()

			timeout := time.NewTimer(c.timeout)
			defer timeout.Stop()
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					c.mu.RLock()
					done := c.completed(kind, task)
					c.mu.RUnlock()
					if done {
						return
					}
				case <-timeout.C:
					c.mu.Lock()
					requeued := requeue(task)
					c.mu.Unlock()

					if requeued {
						log.Info().Int32("task", task).Str("kind", kind).Msg("timeout task, re-queueing task")
					}
					return
				}
			}
		}(task)
	}
	wg.Wait()
}

func (c *Coordinator) completed(kind string, task int32) bool {
	if kind == "map" {
		return c.mapTasks[task].State == mapreducev1.State_STATE_COMPLETED
	}
	return c.reduceTasks[task].State == mapreducev1.State_STATE_COMPLETED
}
