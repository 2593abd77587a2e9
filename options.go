package dxf

import (
	"log/slog"

	"golang.org/x/text/encoding"

	"github.com/zooyer/dxfview/entities"
)

// DefaultMaxDepth 块嵌套展开的最大深度
const DefaultMaxDepth = 20

type options struct {
	progress func(percent int)
	logger   *slog.Logger
	maxDepth int
	metrics  entities.TextMetrics
	fallback encoding.Encoding
}

// Option 加载选项
type Option func(o *options)

// WithProgress 加载进度回调，参数为 0~100 的整数，单调递增，最后一次为 100
func WithProgress(fn func(percent int)) Option {
	return func(o *options) { o.progress = fn }
}

// WithLogger 日志输出，默认丢弃
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxDepth 块嵌套展开的最大深度
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithTextMetrics 文字尺寸估算策略
func WithTextMetrics(m entities.TextMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithFallbackEncoding 非 UTF-8 文件使用的编码，不设置时按 $DWGCODEPAGE 选择
func WithFallbackEncoding(enc encoding.Encoding) Option {
	return func(o *options) { o.fallback = enc }
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
		metrics:  entities.DefaultMetrics,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// progress 去重并保证单调的进度上报
type progress struct {
	fn   func(percent int)
	last int
}

func (p *progress) report(percent int) {
	if p.fn == nil {
		return
	}
	percent = min(max(percent, 0), 100)
	if percent <= p.last {
		return
	}
	p.last = percent
	p.fn(percent)
}
