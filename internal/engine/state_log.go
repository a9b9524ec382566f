package engine

import (
	"fmt"
	"time"

	"pursuit-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в игровой лог текущего уровня
func (s *State) AddLog(text, logType string) {
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", s.Level, time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	s.log.WithFields(logrus.Fields{
		"level":    s.Level,
		"log_type": logType,
	}).Debug(text)
}

// DrainLogs забирает накопленные записи и очищает очередь
func (s *State) DrainLogs() []api.LogEntry {
	logs := s.Logs
	s.Logs = []api.LogEntry{}
	return logs
}
