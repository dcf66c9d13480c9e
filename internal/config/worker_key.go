package config

type WorkerKeyStruct struct {
	PersistResultsQueue string
	// DeadResultsQueue receives records the worker could not decode.
	DeadResultsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResultsQueue: "persist_results_queue",
	DeadResultsQueue:    "dead_results_queue",
}
