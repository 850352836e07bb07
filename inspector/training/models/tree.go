/*
 *     Copyright 2024 The IntelliInspect Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"errors"
	"fmt"
	"sort"
)

// leafIndex marks a node without children.
const leafIndex = -1

// Node is one node of a regression tree, rows with Feature value
// lower than Threshold go Left.
type Node struct {
	Feature   int     `json:"feature" mapstructure:"feature"`
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
	Left      int     `json:"left" mapstructure:"left"`
	Right     int     `json:"right" mapstructure:"right"`
	Value     float64 `json:"value" mapstructure:"value"`
}

// IsLeaf returns whether the node is a leaf.
func (n Node) IsLeaf() bool {
	return n.Left == leafIndex
}

// Tree is a regression tree stored as a flat node slice, the root is the first node.
type Tree struct {
	Nodes []Node `json:"nodes" mapstructure:"nodes"`
}

// Predict returns the leaf value of the features.
func (t *Tree) Predict(features []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}

	n := t.Nodes[0]
	for !n.IsLeaf() {
		if features[n.Feature] < n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}

	return n.Value
}

// Depth returns the number of edges on the longest path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}

	var depth func(i int) int
	depth = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}

		l, r := depth(n.Left), depth(n.Right)
		if l > r {
			return l + 1
		}
		return r + 1
	}

	return depth(0)
}

// validate checks that children reference later nodes, so decoded trees cannot loop.
func (t *Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}

	for i, n := range t.Nodes {
		if n.IsLeaf() {
			continue
		}

		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: invalid feature %d", i, n.Feature)
		}

		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d, %d", i, n.Left, n.Right)
		}
	}

	return nil
}

type treeParams struct {
	maxDepth       int
	lambda         float64
	minChildWeight float64
	learningRate   float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// buildTree grows a tree on rows by exact greedy search of the best split per node.
func buildTree(x [][]float64, grad, hess []float64, rows []int, params treeParams) *Tree {
	t := &Tree{}
	var grow func(rows []int, depth int) int
	grow = func(rows []int, depth int) int {
		g, h := sums(grad, hess, rows)
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{
			Left:  leafIndex,
			Right: leafIndex,
			Value: -g / (h + params.lambda) * params.learningRate,
		})

		if depth >= params.maxDepth || len(rows) < 2 {
			return idx
		}

		best, ok := bestSplit(x, grad, hess, rows, g, h, params)
		if !ok {
			return idx
		}

		left := grow(best.left, depth+1)
		right := grow(best.right, depth+1)
		t.Nodes[idx] = Node{
			Feature:   best.feature,
			Threshold: best.threshold,
			Left:      left,
			Right:     right,
		}

		return idx
	}

	grow(rows, 0)
	return t
}

func bestSplit(x [][]float64, grad, hess []float64, rows []int, g, h float64, params treeParams) (split, bool) {
	var (
		best  split
		found bool
	)

	parentScore := g * g / (h + params.lambda)
	sorted := make([]int, len(rows))
	for feature := range x[rows[0]] {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return x[sorted[i]][feature] < x[sorted[j]][feature]
		})

		var gl, hl float64
		for i := 0; i < len(sorted)-1; i++ {
			gl += grad[sorted[i]]
			hl += hess[sorted[i]]

			current, next := x[sorted[i]][feature], x[sorted[i+1]][feature]
			if current == next {
				continue
			}

			gr, hr := g-gl, h-hl
			if hl < params.minChildWeight || hr < params.minChildWeight {
				continue
			}

			gain := 0.5 * (gl*gl/(hl+params.lambda) + gr*gr/(hr+params.lambda) - parentScore)
			if gain > best.gain {
				best = split{
					feature:   feature,
					threshold: (current + next) / 2,
					gain:      gain,
				}
				found = true
			}
		}
	}

	if !found {
		return best, false
	}

	for _, r := range rows {
		if x[r][best.feature] < best.threshold {
			best.left = append(best.left, r)
		} else {
			best.right = append(best.right, r)
		}
	}

	return best, true
}

func sums(grad, hess []float64, rows []int) (float64, float64) {
	var g, h float64
	for _, r := range rows {
		g += grad[r]
		h += hess[r]
	}

	return g, h
}
