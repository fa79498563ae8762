package host

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/markercraft/internal/marker"
)

// Shape selects how ListMarkers reports markers, mirroring the two host API generations.
type Shape string

const (
	ShapeKeyed Shape = "keyed" // map[int]marker.Marker
	ShapeList  Shape = "list"  // []marker.Marker
)

// Project is the on-disk project file
type Project struct {
	Name      string            `yaml:"name"`
	FrameRate float64           `yaml:"frame_rate"`
	Timelines []marker.Timeline `yaml:"timelines"`
}

// ReadProject reads a project from a YAML file
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	// Hand-edited files may spell colors in any case.
	for i := range p.Timelines {
		for j := range p.Timelines[i].Markers {
			m := &p.Timelines[i].Markers[j]
			m.Color = marker.ParseColor(string(m.Color))
		}
	}
	return &p, nil
}

// WriteProject writes a project to a YAML file
func WriteProject(p *Project, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FileStore is a Provider backed by a YAML project file. Changes stay in memory until
// Save.
type FileStore struct {
	Shape Shape
	// RejectZeroDuration makes AddMarker refuse markers shorter than one frame, as
	// newer hosts do.
	RejectZeroDuration bool

	path    string
	project *Project
}

// Open loads a project file.
func Open(path string) (*FileStore, error) {
	p, err := ReadProject(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{Shape: ShapeKeyed, path: path, project: p}, nil
}

// NewFileStore wraps an in-memory project. Save is a no-op until a path is set.
func NewFileStore(p *Project) *FileStore {
	return &FileStore{Shape: ShapeKeyed, project: p}
}

func (s *FileStore) Project() *Project {
	return s.project
}

// Save writes the project back to the file it was opened from.
func (s *FileStore) Save() error {
	if s.path == "" {
		return nil
	}
	return WriteProject(s.project, s.path)
}

// SaveAs writes the project to path and makes it the store's file.
func (s *FileStore) SaveAs(path string) error {
	s.path = path
	return s.Save()
}

func (s *FileStore) timeline(title string) (*marker.Timeline, error) {
	for i := range s.project.Timelines {
		if s.project.Timelines[i].Title == title {
			return &s.project.Timelines[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", title, ErrTimelineNotFound)
}

func (s *FileStore) Timelines(ctx context.Context) ([]string, error) {
	titles := make([]string, 0, len(s.project.Timelines))
	for _, tl := range s.project.Timelines {
		titles = append(titles, tl.Title)
	}
	return titles, nil
}

func (s *FileStore) ListMarkers(ctx context.Context, title string) (any, error) {
	tl, err := s.timeline(title)
	if err != nil {
		return nil, err
	}
	if s.Shape == ShapeList {
		out := make([]marker.Marker, len(tl.Markers))
		copy(out, tl.Markers)
		return out, nil
	}
	out := make(map[int]marker.Marker, len(tl.Markers))
	for _, m := range tl.Markers {
		out[m.Position] = m
	}
	return out, nil
}

func (s *FileStore) AddMarker(ctx context.Context, title string, m marker.Marker) error {
	tl, err := s.timeline(title)
	if err != nil {
		return err
	}
	switch {
	case m.Position < 0:
		return fmt.Errorf("position %d: %w", m.Position, ErrRejected)
	case s.RejectZeroDuration && m.Duration < 1:
		return fmt.Errorf("duration %d at %d: %w", m.Duration, m.Position, ErrRejected)
	case !m.Color.Supported():
		return fmt.Errorf("color %q at %d: %w", m.Color, m.Position, ErrRejected)
	}
	for _, existing := range tl.Markers {
		if existing.Position == m.Position {
			return fmt.Errorf("position %d occupied: %w", m.Position, ErrRejected)
		}
	}
	tl.Markers = append(tl.Markers, m)
	sort.SliceStable(tl.Markers, func(i, j int) bool {
		return tl.Markers[i].Position < tl.Markers[j].Position
	})
	return nil
}

func (s *FileStore) DeleteMarkerAt(ctx context.Context, title string, pos int) (bool, error) {
	tl, err := s.timeline(title)
	if err != nil {
		return false, err
	}
	for i, m := range tl.Markers {
		if m.Position == pos {
			tl.Markers = append(tl.Markers[:i], tl.Markers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) TimelineInfo(ctx context.Context, title string) (float64, int, error) {
	tl, err := s.timeline(title)
	if err != nil {
		return 0, 0, err
	}
	fps := tl.FrameRate
	if fps <= 0 {
		fps = s.project.FrameRate
	}
	if fps <= 0 {
		fps = marker.DefaultFrameRate
	}
	return fps, tl.TotalDuration, nil
}
