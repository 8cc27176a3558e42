package animator

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// skinChunkSize is the number of vertices one pool task deforms.
const skinChunkSize = 2048

func (m *mixer) Skin(mesh *model.ImportedMesh, positions, normals [][3]float32) {
	m.mu.Lock()
	matrices := append([][16]float32(nil), m.skin...)
	m.mu.Unlock()

	n := len(mesh.Positions)
	if n <= skinChunkSize {
		skinRange(mesh, matrices, positions, normals, 0, n)
		return
	}

	pool := m.workerPool()
	var wg sync.WaitGroup
	for start := 0; start < n; start += skinChunkSize {
		end := min(start+skinChunkSize, n)
		wg.Add(1)
		s, e := start, end
		pool.SubmitTask(worker.Task{
			ID: m.nextTaskID(),
			Do: func() (any, error) {
				defer wg.Done()
				skinRange(mesh, matrices, positions, normals, s, e)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (m *mixer) workerPool() worker.DynamicWorkerPool {
	m.poolOnce.Do(func() {
		m.pool = worker.NewDynamicWorkerPool(m.skinWorkers, 256, 1*time.Second)
	})
	return m.pool
}

func (m *mixer) nextTaskID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskID++
	return m.taskID
}

// skinRange applies linear blend skinning to vertices [start, end).
// Vertices without influences keep their bind position.
func skinRange(mesh *model.ImportedMesh, matrices [][16]float32, positions, normals [][3]float32, start, end int) {
	hasNormals := len(normals) >= end && len(mesh.Normals) >= end
	for v := start; v < end; v++ {
		var p, nrm common.Vec3
		var total float32
		if v < len(mesh.Joints) && v < len(mesh.Weights) {
			for k := 0; k < 4; k++ {
				w := mesh.Weights[v][k]
				j := mesh.Joints[v][k]
				if w == 0 || int(j) >= len(matrices) {
					continue
				}
				mat := matrices[j][:]
				p = common.Add3(p, common.Scale3(common.TransformPoint(mat, mesh.Positions[v]), w))
				if hasNormals {
					nrm = common.Add3(nrm, common.Scale3(common.TransformDir(mat, mesh.Normals[v]), w))
				}
				total += w
			}
		}
		if total == 0 {
			positions[v] = mesh.Positions[v]
			if hasNormals {
				normals[v] = mesh.Normals[v]
			}
			continue
		}
		positions[v] = common.Scale3(p, 1/total)
		if hasNormals {
			normals[v] = common.Normalize3(nrm)
		}
	}
}
