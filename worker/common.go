package worker

import (
	"fmt"
	"path"
)

func getResultsFileKey(task *Task) string {
	return path.Join(
		"processed",
		"tagging",
		task.tid,
		fmt.Sprintf("%s.tags.json", task.tid),
	)
}
