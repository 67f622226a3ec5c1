package curve

import (
	"fmt"
	"io"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/tangent"
	"gopkg.in/yaml.v3"
)

// sceneFile is the YAML form of a MemStore.
type sceneFile struct {
	Playback        *TimeWindow      `yaml:"playback,omitempty"`
	CurrentTime     float64          `yaml:"currentTime,omitempty"`
	DefaultTangent  tangent.Type     `yaml:"defaultTangent,omitempty"`
	SelectedObjects []string         `yaml:"selectedObjects,omitempty"`
	Shown           []ID             `yaml:"shown,omitempty"`
	Curves          []sceneCurve     `yaml:"curves"`
	Selection       []sceneSelection `yaml:"selection,omitempty"`
}

type sceneCurve struct {
	Name         ID         `yaml:"name"`
	Node         string     `yaml:"node,omitempty"`
	PreInfinity  Infinity   `yaml:"preInfinity,omitempty"`
	PostInfinity Infinity   `yaml:"postInfinity,omitempty"`
	Keys         []sceneKey `yaml:"keys"`
}

type sceneKey struct {
	Time     float64  `yaml:"time"`
	Value    float64  `yaml:"value"`
	In       *Tangent `yaml:"in,omitempty"`
	Out      *Tangent `yaml:"out,omitempty"`
	Weighted bool     `yaml:"weighted,omitempty"`
	Locked   bool     `yaml:"locked,omitempty"`
	WLocked  bool     `yaml:"weightLocked,omitempty"`
}

type sceneSelection struct {
	Curve   ID     `yaml:"curve"`
	Keys    []int  `yaml:"keys"`
	Handles string `yaml:"handles,omitempty"` // "in", "out" or empty for whole keys
}

func parseHandles(s string) (Handles, error) {
	switch s {
	case "":
		return WholeKey, nil
	case "in":
		return HandleIn, nil
	case "out":
		return HandleOut, nil
	case "in,out", "both":
		return HandleIn | HandleOut, nil
	}
	return WholeKey, fmt.Errorf("%w: unknown tangent handles %q", graphed.ErrInvalidArgument, s)
}

func formatHandles(h Handles) string {
	switch h {
	case HandleIn:
		return "in"
	case HandleOut:
		return "out"
	case HandleIn | HandleOut:
		return "both"
	}
	return ""
}

// ReadScene reads a YAML scene description into a new MemStore. Keys without
// tangents get the scene's default tangent type, or deflt if the scene does
// not name one. An empty deflt means auto. A scene without a playback range
// keeps the store's default range [0,1].
func ReadScene(r io.Reader, deflt tangent.Type) (*MemStore, error) {
	var sf sceneFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s := NewMemStore()
	if sf.DefaultTangent == "" {
		sf.DefaultTangent = deflt
	}
	if sf.DefaultTangent != "" {
		if !tangent.IsValid(tangent.Out, sf.DefaultTangent) {
			return nil, fmt.Errorf("%w: default tangent %q", graphed.ErrInvalidTangentType, sf.DefaultTangent)
		}
		s.SetDefaultTangent(sf.DefaultTangent)
	}
	if sf.Playback != nil {
		if sf.Playback.End <= sf.Playback.Start {
			return nil, fmt.Errorf("%w: empty playback range %s", graphed.ErrInvalidArgument, sf.Playback)
		}
		s.SetPlaybackRange(*sf.Playback)
	}
	s.SetCurrentTime(sf.CurrentTime)
	s.SelectObjects(sf.SelectedObjects...)
	s.Show(sf.Shown...)
	for _, sc := range sf.Curves {
		keys := make([]Key, len(sc.Keys))
		for i, sk := range sc.Keys {
			keys[i] = Key{Time: sk.Time, Value: sk.Value, Weighted: sk.Weighted,
				Locked: sk.Locked, WeightLocked: sk.WLocked}
			if sk.In != nil {
				keys[i].In = *sk.In
			}
			if sk.Out != nil {
				keys[i].Out = *sk.Out
			}
		}
		if err := s.AddCurve(sc.Name, sc.Node, keys...); err != nil {
			return nil, err
		}
		if err := s.SetInfinity(sc.Name, sc.PreInfinity, sc.PostInfinity); err != nil {
			return nil, err
		}
	}
	sel := NewSelection()
	for _, ss := range sf.Selection {
		h, err := parseHandles(ss.Handles)
		if err != nil {
			return nil, err
		}
		for _, i := range ss.Keys {
			sel.Add(ss.Curve, i, h)
		}
	}
	s.Select(sel)
	tracer().Infof("read scene with %d curves", len(s.order))
	return s, nil
}

// WriteScene writes the curves, selection and settings of s as YAML.
func WriteScene(w io.Writer, s *MemStore) error {
	playback := s.playback
	sf := sceneFile{
		Playback:        &playback,
		CurrentTime:     s.now,
		DefaultTangent:  s.defaultType,
		SelectedObjects: s.objects,
		Shown:           s.shown,
	}
	for _, c := range s.order {
		ac := s.curves[c]
		sc := sceneCurve{Name: c, Node: ac.node, PreInfinity: ac.pre, PostInfinity: ac.post}
		for _, k := range ac.list() {
			in, out := k.In, k.Out
			sc.Keys = append(sc.Keys, sceneKey{
				Time: k.Time, Value: k.Value, In: &in, Out: &out,
				Weighted: k.Weighted, Locked: k.Locked, WLocked: k.WeightLocked,
			})
		}
		sf.Curves = append(sf.Curves, sc)
	}
	for _, c := range s.selection.Curves() {
		byHandles := make(map[Handles][]int)
		var order []Handles
		for _, i := range s.selection.Indices(c) {
			h := s.selection[c][i]
			if _, seen := byHandles[h]; !seen {
				order = append(order, h)
			}
			byHandles[h] = append(byHandles[h], i)
		}
		for _, h := range order {
			sf.Selection = append(sf.Selection, sceneSelection{Curve: c, Keys: byHandles[h], Handles: formatHandles(h)})
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&sf); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return enc.Close()
}
