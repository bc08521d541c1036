package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"runtime"
	"sync"
)

// Tree operations will be carried out by concurrent worker goroutines.
// As tree operations may be chained, a pipeline of filter stages is
// constructed. Every chained operation is reflected by a filter stage.
// Filters read Nodes from an input channel and put processed Nodes on
// an output channel. This way we create a little pipes&filter design.
//
// Filter stages operate concurrently. An overall counter is used
// to track the number of active work-packages (i.e. Nodes) in the
// pipeline. As soon as the number of nodes is zero, all channels (pipes)
// are closed and the workers will terminate.
//
// Every filter performs a specific task, reflected by a workerTask function.
// Filter tasks may use additional data, which is provided as an
// untyped udata ("user data") argument. Filter task functions are responsible
// for decoding their specific udata.

// Minimum and maximum number of concurrent workers for a tree operation
// (filter), if clients do not set the number of workers.
const (
	minWorkerCount int = 3
	maxWorkerCount int = 10
)

// Maximum length of internal buffer channel for a filter.
const maxBufferLength int = 128

// Workers will be tasked a series of workerTasks.
//
// node: input tree node
// isbuffered: is the input node from this stage's buffer queue?
// udata: user provided additional data
// push: function to emit result node to next stage
// pushBuf: function to queue node in local buffer
type workerTask[T comparable] func(node *Node[T], isbuffered bool, udata userdata,
	push func(*Node[T]), pushBuf func(*Node[T], any)) error

// filter is a stage of a pipeline, processing input nodes and producing
// result nodes.
type filter[T comparable] struct {
	results    chan nodePackage[T] // results of this filter (pipeline stage)
	queue      chan nodePackage[T] // buffer queue to re-schedule nodes
	task       workerTask[T]       // the task this filter performs
	filterdata any                 // user-provided information needed to perform task
	env        *filterenv[T]       // connection to outside world
}

// nodePackage is the type which is transported in a pipeline.
//
// 'nodelocal' lets tasks store arbitrary data together with a buffered node.
// It is local to a pipeline stage.
type nodePackage[T comparable] struct {
	node      *Node[T]
	nodelocal any
}

// filterenv holds information about the outside world to be referenced by
// a filter: input workload, error destination and a counter for overall
// work on a pipeline.
type filterenv[T comparable] struct {
	input        <-chan nodePackage[T]
	report       func(error)
	queuecounter *sync.WaitGroup
}

// userdata is the data available to a task: information global to a
// filter (filterdata) and information accompanying a single node (nodelocal).
type userdata struct {
	filterdata any
	nodelocal  any
}

func newFilter[T comparable](task workerTask[T], filterdata any) *filter[T] {
	return &filter[T]{task: task, filterdata: filterdata}
}

// start connects a filter to its input and starts its workers. It returns the
// results channel, which is the input of the next stage.
func (f *filter[T]) start(input <-chan nodePackage[T], pipe *pipeline[T], workers int) chan nodePackage[T] {
	f.env = &filterenv[T]{input: input, report: pipe.report, queuecounter: &pipe.queuecount}
	f.results = make(chan nodePackage[T], 3) // output channel has to be in place before workers start
	f.queue = make(chan nodePackage[T], maxBufferLength)
	for i := range workers {
		go filterWorker(f, i+1)
	}
	return f.results
}

// filterWorker reads work packages from upstream and from the buffer queue
// until both are closed.
//
// Each worker is identified through a worker number 'wno'.
func filterWorker[T comparable](f *filter[T], wno int) {
	for {
		var pkg nodePackage[T]
		var ok, buffered bool
		select {
		case pkg, ok = <-f.env.input:
		case pkg, ok = <-f.queue:
			buffered = true
		}
		if !ok {
			return // pipeline has been shut down
		}
		udata := userdata{filterdata: f.filterdata, nodelocal: pkg.nodelocal}
		if err := f.task(pkg.node, buffered, udata, f.pushResult, f.pushBuffer); err != nil {
			f.env.report(err)
		}
		tracer().Debugf("filter worker %d finished task for %v", wno, pkg.node)
		f.env.queuecounter.Done() // worker has finished a workpackage
	}
}

// pushResult puts a node on the results channel of a filter stage (non-blocking).
func (f *filter[T]) pushResult(node *Node[T]) {
	f.env.queuecounter.Add(1)
	send(f.results, nodePackage[T]{node: node})
}

// pushBuffer puts a node on the buffer queue of a filter (non-blocking).
func (f *filter[T]) pushBuffer(node *Node[T], nodelocal any) {
	f.env.queuecounter.Add(1) // overall workload increases
	send(f.queue, nodePackage[T]{node: node, nodelocal: nodelocal})
}

func send[T comparable](ch chan nodePackage[T], pkg nodePackage[T]) {
	select { // try to send it synchronously without blocking
	case ch <- pkg:
	default: // nope, we'll have to go async
		go func() { ch <- pkg }()
	}
}

// pipeline is a chain of filters to perform tasks on Nodes.
// Filters, i.e., pipeline stages are connected by channels.
type pipeline[T comparable] struct {
	queuecount sync.WaitGroup      // overall count of work packages
	input      chan nodePackage[T] // initial workload
	stages     []*filter[T]        // chain of filters
	errMx      sync.Mutex          // protects lasterr
	lasterr    error               // last error reported by a task
}

func newPipeline[T comparable]() *pipeline[T] {
	return &pipeline[T]{input: make(chan nodePackage[T], 1)}
}

func (pipe *pipeline[T]) appendFilter(f *filter[T]) {
	pipe.stages = append(pipe.stages, f)
}

// report remembers an error. All errors but the last one are thrown away.
func (pipe *pipeline[T]) report(err error) {
	tracer().Debugf("tree walker: %v", err)
	pipe.errMx.Lock()
	defer pipe.errMx.Unlock()
	pipe.lasterr = err
}

func (pipe *pipeline[T]) lastError() error {
	pipe.errMx.Lock()
	defer pipe.errMx.Unlock()
	return pipe.lasterr
}

// start starts all the filter stages, puts the initial node onto the front
// input channel and starts a watchdog goroutine. The watchdog will close all
// channels as soon as no more work packages (i.e., Nodes) are in the
// pipeline. start returns the output channel of the final stage.
func (pipe *pipeline[T]) start(initial *Node[T], workers int) <-chan nodePackage[T] {
	var results <-chan nodePackage[T] = pipe.input
	for _, f := range pipe.stages {
		results = f.start(results, pipe, workers)
	}
	pipe.queuecount.Add(1)
	pipe.input <- nodePackage[T]{node: initial} // input is buffered, will return immediately
	go func() {
		pipe.queuecount.Wait() // wait for empty queues
		close(pipe.input)
		for _, f := range pipe.stages {
			close(f.queue)
			close(f.results)
		}
	}()
	return results
}

// waitForCompletion blocks until all work packages of a pipeline are done.
// It will receive the results of the final filter stage of the pipeline
// and collect them into a slice of Nodes. The slice will be a set, i.e.
// not contain duplicate Nodes.
func waitForCompletion[T comparable](results <-chan nodePackage[T], counter *sync.WaitGroup) []*Node[T] {
	var selection []*Node[T]
	seen := make(map[*Node[T]]bool)
	for pkg := range results { // drain results channel
		if !seen[pkg.node] {
			seen[pkg.node] = true
			selection = append(selection, pkg.node)
		}
		counter.Done() // we removed a value => count down
	}
	return selection
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return min(max(runtime.NumCPU(), minWorkerCount), maxWorkerCount)
}
