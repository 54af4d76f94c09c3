package snapshot

import (
	"focusFlow/internal/models/task"
)

// CurrentVersion - версия формата, которую пишет Encode
const CurrentVersion = 2

// миграция переводит записи из версии v в v+1
type migration func([]Record) []Record

// migrations[v] поднимает записи версии v до v+1
var migrations = map[int]migration{
	1: migrateV1ToV2,
}

// Migrate поднимает записи до CurrentVersion по цепочке миграций.
// Версия новее текущей читается как есть.
func Migrate(version int, records []Record) []Record {
	if version < 1 {
		version = 1
	}
	for v := version; v < CurrentVersion; v++ {
		if m, ok := migrations[v]; ok {
			records = m(records)
		}
	}
	return records
}

// версия 1: одиночный таймер с elapsedSeconds, без режима обучения
func migrateV1ToV2(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		if r.ActiveMode == "" {
			r.ActiveMode = string(task.ModeFocus)
		}
		if r.FocusElapsed == nil {
			if r.ElapsedSeconds != nil {
				r.FocusElapsed = floatPtr(*r.ElapsedSeconds)
			} else {
				r.FocusElapsed = floatPtr(0)
			}
		}
		r.ElapsedSeconds = nil
		if r.LearnElapsed == nil {
			r.LearnElapsed = floatPtr(0)
		}
		if r.LearnTargetDuration == nil {
			r.LearnTargetDuration = floatPtr(task.DefaultLearnTarget)
		}
		out[i] = r
	}
	return out
}
