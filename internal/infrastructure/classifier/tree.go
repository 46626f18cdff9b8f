package classifier

import (
	"math"

	crerr "github.com/cockroachdb/errors"
)

// TreeEnsemble evaluates gradient boosted trees. Each tree adds its leaf
// value to the margin of its class group.
type TreeEnsemble struct {
	classes      int
	featureCount int
	baseScore    float64
	trees        []tree
}

type tree struct {
	class int
	nodes []node
}

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
}

func newTreeEnsemble(spec Spec, featureCount int) (*TreeEnsemble, error) {
	if len(spec.Trees) == 0 {
		return nil, crerr.Wrap(ErrInvalidSpec, "tree ensemble has no trees")
	}

	groups := spec.Classes
	if groups == 2 {
		groups = 1
	}

	model := &TreeEnsemble{
		classes:      spec.Classes,
		featureCount: featureCount,
		baseScore:    spec.BaseScore,
		trees:        make([]tree, 0, len(spec.Trees)),
	}
	for i, ts := range spec.Trees {
		if ts.Class < 0 || ts.Class >= groups {
			return nil, crerr.Wrapf(ErrInvalidSpec, "tree %d class=%d outside [0,%d)", i, ts.Class, groups)
		}
		t, err := compileTree(ts, featureCount)
		if err != nil {
			return nil, crerr.Wrapf(err, "tree %d", i)
		}
		model.trees = append(model.trees, t)
	}
	return model, nil
}

// compileTree indexes nodes by id and checks every split reference so
// evaluation cannot leave the slice.
func compileTree(ts TreeSpec, featureCount int) (tree, error) {
	if len(ts.Nodes) == 0 {
		return tree{}, crerr.Wrap(ErrInvalidSpec, "empty tree")
	}

	nodes := make([]node, len(ts.Nodes))
	seen := make([]bool, len(ts.Nodes))
	for _, ns := range ts.Nodes {
		if ns.ID < 0 || ns.ID >= len(nodes) || seen[ns.ID] {
			return tree{}, crerr.Wrapf(ErrInvalidSpec, "node id %d is out of range or duplicated", ns.ID)
		}
		seen[ns.ID] = true

		if ns.Leaf != nil {
			nodes[ns.ID] = node{leaf: true, value: *ns.Leaf}
			continue
		}
		if ns.Feature < 0 || ns.Feature >= featureCount {
			return tree{}, crerr.Wrapf(ErrInvalidSpec, "node %d splits on feature %d of %d", ns.ID, ns.Feature, featureCount)
		}
		for _, child := range []int{ns.Yes, ns.No, ns.Missing} {
			if child <= ns.ID || child >= len(nodes) {
				return tree{}, crerr.Wrapf(ErrInvalidSpec, "node %d has invalid child %d", ns.ID, child)
			}
		}
		nodes[ns.ID] = node{
			feature:   ns.Feature,
			threshold: ns.Threshold,
			yes:       ns.Yes,
			no:        ns.No,
			missing:   ns.Missing,
		}
	}
	return tree{class: ts.Class, nodes: nodes}, nil
}

func (t tree) eval(features []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.leaf {
			return n.value
		}
		x := features[n.feature]
		switch {
		case math.IsNaN(x):
			i = n.missing
		case x < n.threshold:
			i = n.yes
		default:
			i = n.no
		}
	}
}

func (e *TreeEnsemble) NumClasses() int {
	return e.classes
}

func (e *TreeEnsemble) PredictProba(features []float64) ([]float64, error) {
	if err := checkInput(features, e.featureCount); err != nil {
		return nil, err
	}

	groups := e.classes
	if groups == 2 {
		groups = 1
	}
	margins := make([]float64, groups)
	for i := range margins {
		margins[i] = e.baseScore
	}
	for _, t := range e.trees {
		margins[t.class] += t.eval(features)
	}

	if groups == 1 {
		p := sigmoid(margins[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(margins), nil
}
