package succinct

import "runtime"

const (
	// DefaultSelectSample is the number of occurrences of a bit value
	// between two select samples.
	DefaultSelectSample = 2 * 2048

	// DefaultBlockWidth is the RRR block width in bits.
	DefaultBlockWidth = 63

	// DefaultSuperblock is the number of RRR blocks between two rank samples.
	DefaultSuperblock = 32

	// DefaultSparseSample is the number of majority bits between two
	// samples of the sparse gap index.
	DefaultSparseSample = 1024
)

type options struct {
	logger       *Logger
	selectSample uint64
	blockWidth   uint
	superblock   uint64
	sparseSample uint64
	parallelism  int
}

// Option configures construction of a bit vector.
type Option func(*options)

// WithLogger configures structured logging of construction.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSelectSample sets how many occurrences of a bit value lie between two
// select samples in the dense and RRR representations. Smaller values make
// select faster and the index larger.
func WithSelectSample(n uint64) Option {
	return func(o *options) {
		o.selectSample = n
	}
}

// WithBlockWidth sets the RRR block width. It must lie in [1, MaxBlockWidth]
// so every combinatorial offset fits in 64 bits.
func WithBlockWidth(b uint) Option {
	return func(o *options) {
		o.blockWidth = b
	}
}

// WithSuperblock sets the number of RRR blocks covered by one rank sample.
func WithSuperblock(blocks uint64) Option {
	return func(o *options) {
		o.superblock = blocks
	}
}

// WithSparseSample sets the majority-bit stride of the sparse gap index.
func WithSparseSample(n uint64) Option {
	return func(o *options) {
		o.sparseSample = n
	}
}

// WithParallelism sets the number of goroutines used to compute samples
// during construction. Values below 1 select runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:       NoopLogger(),
		selectSample: DefaultSelectSample,
		blockWidth:   DefaultBlockWidth,
		superblock:   DefaultSuperblock,
		sparseSample: DefaultSparseSample,
		parallelism:  1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o *options) validate() error {
	if o.selectSample == 0 || o.superblock == 0 || o.sparseSample == 0 {
		return ErrInvalidSampleRate
	}
	if o.blockWidth == 0 || o.blockWidth > MaxBlockWidth {
		return &ErrBlockWidth{Width: o.blockWidth}
	}
	return nil
}
