package core

import (
	"bufio"
	"io"
	"runtime"
	"strconv"
	"strings"
)

// CheckpointLines 每读取多少行触发一次检查点
const CheckpointLines = 4096

// Checkpoint 在检查点被调用，返回错误会终止扫描
type Checkpoint func(lines int, consumed int64) error

type Scanner struct {
	reader  *bufio.Reader
	LastTag Tag
	err     error

	peeked   *Tag
	stopped  bool
	lines    int
	consumed int64
	next     int
	hook     Checkpoint

	malformed int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		next:   CheckpointLines,
	}
}

// SetCheckpoint 安装检查点回调
func (s *Scanner) SetCheckpoint(hook Checkpoint) {
	s.hook = hook
}

// Next 消费一组标签到 LastTag
func (s *Scanner) Next() bool {
	if s.peeked != nil {
		s.LastTag, s.peeked = *s.peeked, nil
		return true
	}

	tag, ok := s.read()
	if !ok {
		return false
	}
	s.LastTag = tag
	return true
}

// Peek 预读下一组标签，不消费
func (s *Scanner) Peek() (Tag, bool) {
	if s.peeked != nil {
		return *s.peeked, true
	}

	tag, ok := s.read()
	if !ok {
		return Tag{}, false
	}
	s.peeked = &tag
	return tag, true
}

func (s *Scanner) read() (Tag, bool) {
	if s.stopped {
		return Tag{}, false
	}

	// 1. 读取 Code 行，跳过空行
	var codeStr string
	for {
		line, ok := s.readLine()
		if !ok {
			return Tag{}, false
		}
		if codeStr = strings.TrimSpace(line); codeStr != "" {
			break
		}
	}

	// 非数字组码视为上下文结束，只截断不报错
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.malformed = s.lines
		s.stopped = true
		return Tag{}, false
	}

	// 2. 读取 Value 行，保留 Value 开头的空格（DXF 规范要求）
	value, ok := s.readLine()
	if !ok {
		return Tag{}, false
	}

	return Tag{Code: code, Value: value}, true
}

// readLine 读取一行，兼容 \n、\r\n 以及只用 \r 的老文件
func (s *Scanner) readLine() (string, bool) {
	var (
		sb  strings.Builder
		eol bool
	)
	for !eol {
		b, err := s.reader.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			if sb.Len() == 0 {
				s.stopped = true
				return "", false
			}
			break
		}
		s.consumed++
		switch b {
		case '\n':
			eol = true
		case '\r':
			if next, err := s.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = s.reader.ReadByte()
				s.consumed++
			}
			eol = true
		default:
			sb.WriteByte(b)
		}
	}

	s.lines++
	if s.lines >= s.next {
		s.next += CheckpointLines
		if s.hook != nil {
			if err := s.hook(s.lines, s.consumed); err != nil {
				s.err = err
				s.stopped = true
				return "", false
			}
		}
		// 让出调度，避免长时间占用
		runtime.Gosched()
	}

	return sb.String(), true
}

// Lines 已读取的行数
func (s *Scanner) Lines() int { return s.lines }

// Consumed 已读取的字节数
func (s *Scanner) Consumed() int64 { return s.consumed }

// Malformed 返回遇到非法组码的行号，0 表示没有
func (s *Scanner) Malformed() int { return s.malformed }

// Done 数据已读完（或被截断/取消），且没有预读的标签
func (s *Scanner) Done() bool { return s.stopped && s.peeked == nil }

// Drain 跳过当前对象剩余的标签，停在下一个 0 组码上
func (s *Scanner) Drain() {
	for s.Next() {
		if s.LastTag.Code == 0 {
			return
		}
	}
}

func (s *Scanner) Err() error {
	return s.err
}
