package framestore

// FrameStoreBuilderOption is a functional option for configuring a FrameStore.
// Use the With* functions to create options.
type FrameStoreBuilderOption func(fs *frameStore)

// WithWorkers sets the maximum number of pool goroutines evaluating a frame.
//
// Parameters:
//   - n: worker count, values below 1 are ignored
//
// Returns:
//   - FrameStoreBuilderOption: option function to apply
func WithWorkers(n int) FrameStoreBuilderOption {
	return func(fs *frameStore) {
		if n > 0 {
			fs.workers = n
		}
	}
}

// WithChunkSize sets how many particles one pool task evaluates.
//
// Parameters:
//   - n: particles per task, values below 1 are ignored
//
// Returns:
//   - FrameStoreBuilderOption: option function to apply
func WithChunkSize(n int) FrameStoreBuilderOption {
	return func(fs *frameStore) {
		if n > 0 {
			fs.chunkSize = n
		}
	}
}
