package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/ncruces/zenity"
	"github.com/spf13/pflag"
	"github.com/zooyer/golib/xos"
	"golang.org/x/term"

	"github.com/zooyer/dxfview"
	"github.com/zooyer/dxfview/core"
)

type flags struct {
	config   string
	csv      bool
	hit      string
	box      string
	clusters float64
	layer    string
	attrs    bool
	dims     bool
	watch    bool
	gui      bool
	tol      float64
	depth    int
	encoding string
	logLevel string
}

func parseFlags(args []string) (*flags, *pflag.FlagSet, error) {
	var (
		f  flags
		fs = pflag.NewFlagSet("dxfview", pflag.ContinueOnError)
	)
	fs.StringVarP(&f.config, "config", "c", defaultConfig, "TOML 配置文件")
	fs.BoolVar(&f.csv, "csv", false, "把实体范围写入同名 CSV 文件")
	fs.StringVar(&f.hit, "hit", "", "点选 x,y（原始坐标）")
	fs.StringVar(&f.box, "box", "", "框选 x1,y1,x2,y2（原始坐标）")
	fs.Float64Var(&f.clusters, "clusters", 0, "按间距合并实体范围并识别附近标注")
	fs.StringVar(&f.layer, "layer", "", "分组只取该图层")
	fs.BoolVar(&f.attrs, "attrs", false, "列出块属性")
	fs.BoolVar(&f.dims, "dims", false, "列出标注数值")
	fs.BoolVarP(&f.watch, "watch", "w", false, "文件变化时重新加载")
	fs.BoolVar(&f.gui, "gui", false, "使用对话框选择文件并显示进度")
	fs.Float64Var(&f.tol, "tol", 0, "点选容差")
	fs.IntVar(&f.depth, "depth", 0, "块嵌套最大深度")
	fs.StringVar(&f.encoding, "encoding", "", "非 UTF-8 文件的编码")
	fs.StringVar(&f.logLevel, "log-level", "", "日志级别 debug/info/warn/error")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "用法: dxfview [flags] file.dxf")
		fs.PrintDefaults()
	}

	return &f, fs, fs.Parse(args)
}

// apply 命令行参数覆盖配置文件
func (f *flags) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("tol") {
		cfg.Tolerance = f.tol
	}
	if fs.Changed("depth") {
		cfg.MaxDepth = f.depth
	}
	if fs.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("clusters") {
		cfg.Cluster.Gap = f.clusters
	}
	if fs.Changed("layer") {
		cfg.Cluster.Layer = f.layer
	}
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("需要 %d 个数值: %q", n, s)
	}
	values := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("非法数值 %q: %w", part, err)
		}
		values[i] = v
	}
	return values, nil
}

type app struct {
	flags  *flags
	fs     *pflag.FlagSet
	cfg    Config
	logger *slog.Logger
	p      *printer
}

func (a *app) load(ctx context.Context, filename string) (*dxf.Document, error) {
	enc, err := a.cfg.encoding()
	if err != nil {
		return nil, err
	}

	opts := []dxf.Option{
		dxf.WithLogger(a.logger),
		dxf.WithMaxDepth(a.cfg.MaxDepth),
		dxf.WithFallbackEncoding(enc),
	}

	if a.flags.gui {
		dlg, err := zenity.Progress(zenity.Title("加载 "+filepath.Base(filename)), zenity.MaxValue(100))
		if err != nil {
			return nil, err
		}
		defer dlg.Close()

		// 关闭对话框即取消加载
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-dlg.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
		opts = append(opts, dxf.WithProgress(func(percent int) { _ = dlg.Value(percent) }))
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return dxf.LoadContext(ctx, file, opts...)
}

// report 加载并输出一次
func (a *app) report(ctx context.Context, filename string) error {
	start := time.Now()
	doc, err := a.load(ctx, filename)
	if err != nil {
		return err
	}
	a.logger.Info("loaded", "file", filename, "elapsed", time.Since(start))

	a.p.summary(filename, doc)

	if a.flags.hit != "" {
		v, err := parseFloats(a.flags.hit, 2)
		if err != nil {
			return err
		}
		a.p.hit(doc, core.Point{X: v[0], Y: v[1]}, a.cfg.Tolerance)
	}
	if a.flags.box != "" {
		v, err := parseFloats(a.flags.box, 4)
		if err != nil {
			return err
		}
		a.p.box(doc, core.PointBBox(core.Point{X: v[0], Y: v[1]}, core.Point{X: v[2], Y: v[3]}))
	}
	if a.flags.attrs {
		a.p.attrs(doc)
	}
	if a.flags.dims {
		a.p.dims(doc)
	}
	if a.fs.Changed("clusters") || a.fs.Changed("layer") {
		a.p.clusters(doc, a.cfg.Cluster)
	}
	if a.flags.csv {
		name, err := writeCSV(filename, doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.p.w, "写入文件:", name)
	}

	return nil
}

// watch 文件变化后重新加载，直到 ctx 结束
func (a *app) watch(ctx context.Context, filename string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 编辑器保存时常常是重命名替换，监听所在目录
	if err = watcher.Add(filepath.Dir(filename)); err != nil {
		return err
	}

	var (
		target   = filepath.Clean(filename)
		debounce <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				debounce = time.After(200 * time.Millisecond)
			}
		case <-debounce:
			debounce = nil
			fmt.Fprintln(a.p.w)
			if err := a.report(ctx, filename); err != nil {
				a.logger.Error("reload failed", "file", filename, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}

func run(interactive bool) int {
	f, fs, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	f.apply(fs, &cfg)

	profile := termenv.Ascii
	if interactive {
		profile = termenv.EnvColorProfile()
	}

	a := &app{
		flags:  f,
		fs:     fs,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level()})),
		p:      &printer{w: os.Stdout, out: termenv.NewOutput(os.Stdout, termenv.WithProfile(profile))},
	}

	filename := fs.Arg(0)
	if filename == "" && f.gui {
		filename, err = zenity.SelectFile(
			zenity.Title("选择 DXF 文件"),
			zenity.FileFilters{{Name: "DXF", Patterns: []string{"*.dxf"}, CaseFold: true}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			return 1
		}
		if err != nil {
			a.logger.Error("select file", "error", err)
			return 1
		}
	}
	if filename == "" {
		fmt.Println("请把DXF文件拖入该程序上执行！")
		fs.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = a.report(ctx, filename); err != nil {
		fmt.Fprintln(os.Stderr, "加载失败:", err)
		if f.gui {
			_ = zenity.Error(err.Error(), zenity.Title("dxfview"))
		}
		if !f.watch {
			return 1
		}
	}

	if f.watch {
		if err = a.watch(ctx, filename); err != nil {
			a.logger.Error("watch", "error", err)
			return 1
		}
	}

	return 0
}

func main() {
	// 拖放启动时没有终端，结束前暂停以便查看输出
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	code := run(interactive)
	if !interactive {
		xos.PauseExit()
	}
	os.Exit(code)
}
