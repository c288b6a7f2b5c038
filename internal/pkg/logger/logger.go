package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger define a interface para logging estruturado.
// Repositórios, serviços e handlers dependem apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// LogEntry é uma linha de log serializada em JSON.
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelFatal
)

var levelNames = map[level]string{
	levelDebug: "DEBUG",
	levelInfo:  "INFO",
	levelWarn:  "WARN",
	levelError: "ERROR",
	levelFatal: "FATAL",
}

// parseLevel aceita debug, info, warn, error e fatal. Qualquer outro valor vira info.
func parseLevel(s string) level {
	for lv, name := range levelNames {
		if strings.EqualFold(s, name) {
			return lv
		}
	}
	return levelInfo
}

// JSONLogger escreve uma entrada JSON por linha no writer configurado.
type JSONLogger struct {
	mu  sync.Mutex
	out io.Writer
	min level
	now func() time.Time
	exit func(int)
}

// NewLogger cria o logger da aplicação escrevendo no stderr.
func NewLogger(lvl string) Logger {
	return NewWithWriter(lvl, os.Stderr)
}

// NewWithWriter permite direcionar a saída (testes, arquivos).
func NewWithWriter(lvl string, out io.Writer) *JSONLogger {
	return &JSONLogger{out: out, min: parseLevel(lvl), now: time.Now, exit: os.Exit}
}

func (l *JSONLogger) write(lv level, msg string, fields map[string]interface{}, err error) {
	if lv < l.min {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     levelNames[lv],
		Message:   msg,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	line, mErr := json.Marshal(entry)
	if mErr != nil {
		// Campo não serializável: registra a mensagem sem os campos.
		entry.Fields = map[string]interface{}{"fields_error": mErr.Error()}
		line, _ = json.Marshal(entry)
	}

	l.mu.Lock()
	_, _ = l.out.Write(append(line, '\n'))
	l.mu.Unlock()

	if lv == levelFatal {
		l.exit(1)
	}
}

func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.write(levelDebug, msg, fields, nil)
}

func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.write(levelInfo, msg, fields, nil)
}

func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.write(levelWarn, msg, fields, nil)
}

func (l *JSONLogger) Error(msg string, err error) {
	l.write(levelError, msg, nil, err)
}

// Fatal registra e encerra o processo.
func (l *JSONLogger) Fatal(msg string, err error) {
	l.write(levelFatal, msg, nil, err)
}
