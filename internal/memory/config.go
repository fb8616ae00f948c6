package memory

// Default tuning values. A zero field in any Config selects its default.
const (
	DefaultWindowSize           = 5
	DefaultShortTermThreshold   = 4
	DefaultCompressionThreshold = 5
	DefaultPageSize             = 2
	DefaultMaxPages             = 3
	DefaultChunkSize            = 1000
	DefaultChunkOverlap         = 0
	DefaultChunkSeparator       = "\n"
	DefaultRetrievalK           = 2
	DefaultEmbeddingMaxChars    = 2048
)

// WindowConfig configures SlidingWindow.
type WindowConfig struct {
	// WindowSize is the number of most recent messages retained.
	WindowSize int `yaml:"window_size"`
}

func (cfg WindowConfig) withDefaults() WindowConfig {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	return cfg
}

func (cfg WindowConfig) validate() error {
	if cfg.WindowSize < 1 {
		return invalidConfig("window_size must be at least 1, got %d", cfg.WindowSize)
	}
	return nil
}

// SummaryConfig configures Summarizing.
type SummaryConfig struct {
	SummaryPrompt string `yaml:"summary_prompt"`

	// CacheSummary reuses the last summary until the history changes.
	CacheSummary bool `yaml:"cache_summary"`
}

func (cfg SummaryConfig) withDefaults() SummaryConfig {
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = DefaultSummaryPrompt
	}
	return cfg
}

// HierarchicalConfig configures Hierarchical.
type HierarchicalConfig struct {
	// ShortTermThreshold is the largest short-term size tolerated before
	// older messages are folded into the long-term summary.
	ShortTermThreshold int    `yaml:"short_term_threshold"`
	SummaryPrompt      string `yaml:"summary_prompt"`
}

func (cfg HierarchicalConfig) withDefaults() HierarchicalConfig {
	if cfg.ShortTermThreshold == 0 {
		cfg.ShortTermThreshold = DefaultShortTermThreshold
	}
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = DefaultSummaryPrompt
	}
	return cfg
}

func (cfg HierarchicalConfig) validate() error {
	if cfg.ShortTermThreshold < 1 {
		return invalidConfig("short_term_threshold must be at least 1, got %d", cfg.ShortTermThreshold)
	}
	return nil
}

// CompressionConfig configures Compression.
type CompressionConfig struct {
	// CompressionThreshold is the history length at which the whole
	// history is compressed into one summary.
	CompressionThreshold int    `yaml:"compression_threshold"`
	CompressionPrompt    string `yaml:"compression_prompt"`
}

func (cfg CompressionConfig) withDefaults() CompressionConfig {
	if cfg.CompressionThreshold == 0 {
		cfg.CompressionThreshold = DefaultCompressionThreshold
	}
	if cfg.CompressionPrompt == "" {
		cfg.CompressionPrompt = DefaultCompressionPrompt
	}
	return cfg
}

func (cfg CompressionConfig) validate() error {
	if cfg.CompressionThreshold < 1 {
		return invalidConfig("compression_threshold must be at least 1, got %d", cfg.CompressionThreshold)
	}
	return nil
}

// PagedConfig configures Paged.
type PagedConfig struct {
	PageSize int `yaml:"page_size"`
	MaxPages int `yaml:"max_pages"`
}

func (cfg PagedConfig) withDefaults() PagedConfig {
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	return cfg
}

func (cfg PagedConfig) validate() error {
	if cfg.PageSize < 1 {
		return invalidConfig("page_size must be at least 1, got %d", cfg.PageSize)
	}
	if cfg.MaxPages < 1 {
		return invalidConfig("max_pages must be at least 1, got %d", cfg.MaxPages)
	}
	return nil
}

// RetrievalConfig configures Retrieval.
type RetrievalConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	Separator    string `yaml:"separator"`

	// K is the number of chunks returned per query.
	K int `yaml:"k"`
}

func (cfg RetrievalConfig) withDefaults() RetrievalConfig {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Separator == "" {
		cfg.Separator = DefaultChunkSeparator
	}
	if cfg.K == 0 {
		cfg.K = DefaultRetrievalK
	}
	return cfg
}

func (cfg RetrievalConfig) validate() error {
	if cfg.ChunkSize < 1 {
		return invalidConfig("chunk_size must be at least 1, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		return invalidConfig("chunk_overlap must not be negative, got %d", cfg.ChunkOverlap)
	}
	if cfg.ChunkOverlap > cfg.ChunkSize {
		return invalidConfig("chunk_overlap %d is larger than chunk_size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.K < 1 {
		return invalidConfig("k must be at least 1, got %d", cfg.K)
	}
	return nil
}

// EmbeddingConfig configures EmbeddingAugmented.
type EmbeddingConfig struct {
	// MaxChars truncates the rendered history before embedding.
	MaxChars int `yaml:"max_chars"`
}

func (cfg EmbeddingConfig) withDefaults() EmbeddingConfig {
	if cfg.MaxChars == 0 {
		cfg.MaxChars = DefaultEmbeddingMaxChars
	}
	return cfg
}

func (cfg EmbeddingConfig) validate() error {
	if cfg.MaxChars < 1 {
		return invalidConfig("max_chars must be at least 1, got %d", cfg.MaxChars)
	}
	return nil
}
