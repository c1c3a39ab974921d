package instance

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// jsonTask is one record of the task file §6 describes: per-agent id,
// start vertex, goal vertex.
type jsonTask struct {
	ID    int   `json:"id"`
	Start int64 `json:"start_vertex"`
	Goal  int64 `json:"goal_vertex"`
}

// LoadTasksJSON reads a task file and returns the agent list.
func LoadTasksJSON(path string) ([]Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("instance: reading %s: %w", path, err)
	}
	var tasks []jsonTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("instance: parsing %s: %w", path, err)
	}
	agents := make([]Agent, len(tasks))
	for i, t := range tasks {
		agents[i] = Agent{
			ID:    AgentID(t.ID),
			Start: roadmap.VertexID(t.Start),
			Goal:  roadmap.VertexID(t.Goal),
		}
	}
	return agents, nil
}
