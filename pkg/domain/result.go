package domain

type Result[T any] struct {
	Data    T
	Success bool
}

func Succeeded[T any](data T) Result[T] {
	return Result[T]{Data: data, Success: true}
}

func Failed[T any]() Result[T] {
	return Result[T]{}
}

// StreamChunk is one element of a streamed completion. A chunk with Err set
// is terminal and is always the last value received before the channel closes.
type StreamChunk struct {
	Result[string]
	Err error
}

func ChunkOf(text string) StreamChunk {
	return StreamChunk{Result: Succeeded(text)}
}

func FailedChunk() StreamChunk {
	return StreamChunk{Result: Failed[string]()}
}

func TerminalChunk(err error) StreamChunk {
	return StreamChunk{Result: Failed[string](), Err: err}
}
