package planar

import (
	"math"
)

type TreeQueryCallback func(nodeId int) bool

type TreeRayCastCallback func(input RayCastInput, nodeId int) float64

const NullNode = -1

/// One node of the bounding-volume hierarchy. Leaves are proxies and hold
/// the fattened client AABB; internal nodes hold the union of their
/// children. Nodes are pooled in a slice and addressed by index, so the
/// parent field doubles as the free-list link while a node is unused.
type treeNode struct {
	aabb     AABB
	userData interface{}

	parent      int
	left, right int

	// Height above the leaves; 0 for a leaf, -1 while on the free list.
	height int
}

func (n treeNode) isLeaf() bool {
	return n.left == NullNode
}

/// A balanced binary tree of fattened AABBs used as the broad-phase
/// spatial index. Insertion follows the cheapest-perimeter descent and
/// rotations keep the tree shallow, so volume queries and ray casts stay
/// logarithmic while proxies that move only slightly never re-tree.
type DynamicTree struct {
	/// Margin added to tight AABBs so small motions do not re-tree.
	AabbExtension float64

	root     int
	nodes    []treeNode
	freeHead int
}

func MakeDynamicTree() DynamicTree {
	return DynamicTree{
		AabbExtension: DefaultAabbExtension,
		root:          NullNode,
		freeHead:      NullNode,
	}
}

func (tree *DynamicTree) allocNode() int {
	if tree.freeHead == NullNode {
		tree.nodes = append(tree.nodes, treeNode{})
		index := len(tree.nodes) - 1
		tree.resetNode(index)
		return index
	}

	index := tree.freeHead
	tree.freeHead = tree.nodes[index].parent
	tree.resetNode(index)
	return index
}

func (tree *DynamicTree) resetNode(index int) {
	tree.nodes[index] = treeNode{
		parent: NullNode,
		left:   NullNode,
		right:  NullNode,
	}
}

func (tree *DynamicTree) releaseNode(index int) {
	Assert(0 <= index && index < len(tree.nodes))
	tree.nodes[index].parent = tree.freeHead
	tree.nodes[index].height = -1
	tree.nodes[index].userData = nil
	tree.freeHead = index
}

func (tree DynamicTree) GetUserData(proxyId int) interface{} {
	Assert(0 <= proxyId && proxyId < len(tree.nodes))
	return tree.nodes[proxyId].userData
}

func (tree DynamicTree) GetFatAABB(proxyId int) AABB {
	Assert(0 <= proxyId && proxyId < len(tree.nodes))
	return tree.nodes[proxyId].aabb
}

/// Create a leaf for the given tight AABB, fattened by the extension
/// margin, and return its node index.
func (tree *DynamicTree) CreateProxy(aabb AABB, userData interface{}) int {
	index := tree.allocNode()

	margin := Vec2{tree.AabbExtension, tree.AabbExtension}
	tree.nodes[index].aabb.LowerBound = aabb.LowerBound.Sub(margin)
	tree.nodes[index].aabb.UpperBound = aabb.UpperBound.Add(margin)
	tree.nodes[index].userData = userData
	tree.nodes[index].height = 0

	tree.insertLeaf(index)

	return index
}

func (tree *DynamicTree) DestroyProxy(proxyId int) {
	Assert(0 <= proxyId && proxyId < len(tree.nodes))
	Assert(tree.nodes[proxyId].isLeaf())

	tree.removeLeaf(proxyId)
	tree.releaseNode(proxyId)
}

/// Update a proxy for a moved shape. While the stored fat AABB still
/// covers the new tight AABB nothing happens; otherwise the leaf is
/// re-inserted with a fresh margin stretched ahead of the displacement,
/// and the move is reported so the broad-phase can re-pair it.
func (tree *DynamicTree) MoveProxy(proxyId int, aabb AABB, displacement Vec2) bool {
	Assert(0 <= proxyId && proxyId < len(tree.nodes))
	Assert(tree.nodes[proxyId].isLeaf())

	if tree.nodes[proxyId].aabb.Contains(aabb) {
		return false
	}

	tree.removeLeaf(proxyId)

	margin := Vec2{tree.AabbExtension, tree.AabbExtension}
	fat := AABB{
		LowerBound: aabb.LowerBound.Sub(margin),
		UpperBound: aabb.UpperBound.Add(margin),
	}

	// Stretch the box toward where the proxy is heading.
	predicted := displacement.Scale(AabbMultiplier)
	if predicted.X < 0.0 {
		fat.LowerBound.X += predicted.X
	} else {
		fat.UpperBound.X += predicted.X
	}
	if predicted.Y < 0.0 {
		fat.LowerBound.Y += predicted.Y
	} else {
		fat.UpperBound.Y += predicted.Y
	}

	tree.nodes[proxyId].aabb = fat
	tree.insertLeaf(proxyId)

	return true
}

/// Recompute an internal node's AABB and height from its children.
func (tree *DynamicTree) refresh(index int) {
	left := tree.nodes[index].left
	right := tree.nodes[index].right
	tree.nodes[index].height = 1 + MaxInt(tree.nodes[left].height, tree.nodes[right].height)
	tree.nodes[index].aabb.CombineTwoInPlace(tree.nodes[left].aabb, tree.nodes[right].aabb)
}

/// The surface-area-heuristic price of pushing the leaf into the subtree
/// at index, excluding costs shared by every choice.
func (tree *DynamicTree) descendCost(index int, leafAABB AABB, inherited float64) float64 {
	var merged AABB
	merged.CombineTwoInPlace(leafAABB, tree.nodes[index].aabb)

	if tree.nodes[index].isLeaf() {
		return merged.GetPerimeter() + inherited
	}
	return (merged.GetPerimeter() - tree.nodes[index].aabb.GetPerimeter()) + inherited
}

func (tree *DynamicTree) insertLeaf(leaf int) {
	if tree.root == NullNode {
		tree.root = leaf
		tree.nodes[leaf].parent = NullNode
		return
	}

	// Walk down, always taking the child that is cheapest to grow, until
	// splitting the current node beats descending further.
	leafAABB := tree.nodes[leaf].aabb
	index := tree.root
	for !tree.nodes[index].isLeaf() {
		area := tree.nodes[index].aabb.GetPerimeter()

		var merged AABB
		merged.CombineTwoInPlace(tree.nodes[index].aabb, leafAABB)

		splitCost := 2.0 * merged.GetPerimeter()
		inherited := 2.0 * (merged.GetPerimeter() - area)

		costLeft := tree.descendCost(tree.nodes[index].left, leafAABB, inherited)
		costRight := tree.descendCost(tree.nodes[index].right, leafAABB, inherited)

		if splitCost < costLeft && splitCost < costRight {
			break
		}

		if costLeft < costRight {
			index = tree.nodes[index].left
		} else {
			index = tree.nodes[index].right
		}
	}

	// Splice a fresh parent between the chosen sibling and its old parent.
	sibling := index
	oldParent := tree.nodes[sibling].parent
	newParent := tree.allocNode()
	tree.nodes[newParent].parent = oldParent
	tree.nodes[newParent].left = sibling
	tree.nodes[newParent].right = leaf
	tree.nodes[newParent].height = tree.nodes[sibling].height + 1
	tree.nodes[newParent].aabb.CombineTwoInPlace(leafAABB, tree.nodes[sibling].aabb)
	tree.nodes[sibling].parent = newParent
	tree.nodes[leaf].parent = newParent

	if oldParent == NullNode {
		tree.root = newParent
	} else if tree.nodes[oldParent].left == sibling {
		tree.nodes[oldParent].left = newParent
	} else {
		tree.nodes[oldParent].right = newParent
	}

	// Re-balance and re-fit every ancestor.
	for walk := tree.nodes[leaf].parent; walk != NullNode; walk = tree.nodes[walk].parent {
		walk = tree.rotate(walk)
		tree.refresh(walk)
	}
}

func (tree *DynamicTree) removeLeaf(leaf int) {
	if leaf == tree.root {
		tree.root = NullNode
		return
	}

	parent := tree.nodes[leaf].parent
	grand := tree.nodes[parent].parent

	sibling := tree.nodes[parent].left
	if sibling == leaf {
		sibling = tree.nodes[parent].right
	}

	if grand == NullNode {
		// The sibling becomes the new root.
		tree.root = sibling
		tree.nodes[sibling].parent = NullNode
		tree.releaseNode(parent)
		return
	}

	// Lift the sibling into the parent's place and drop the parent.
	if tree.nodes[grand].left == parent {
		tree.nodes[grand].left = sibling
	} else {
		tree.nodes[grand].right = sibling
	}
	tree.nodes[sibling].parent = grand
	tree.releaseNode(parent)

	for walk := grand; walk != NullNode; walk = tree.nodes[walk].parent {
		walk = tree.rotate(walk)
		tree.refresh(walk)
	}
}

/// Rotate the taller child above this node when the height difference
/// exceeds one. Returns the index now rooting this subtree.
func (tree *DynamicTree) rotate(index int) int {
	Assert(index != NullNode)

	if tree.nodes[index].isLeaf() || tree.nodes[index].height < 2 {
		return index
	}

	left := tree.nodes[index].left
	right := tree.nodes[index].right
	lean := tree.nodes[right].height - tree.nodes[left].height

	if lean > 1 {
		return tree.promote(index, right)
	}
	if lean < -1 {
		return tree.promote(index, left)
	}
	return index
}

/// Lift the child `tall` above `index`: tall takes index's place under
/// its old parent, index becomes tall's left child, and tall's shorter
/// grandchild is handed back to index in tall's former slot.
func (tree *DynamicTree) promote(index, tall int) int {
	gc1 := tree.nodes[tall].left
	gc2 := tree.nodes[tall].right

	// Hand the shorter grandchild down; keep the taller beside index.
	keep, give := gc1, gc2
	if tree.nodes[gc2].height > tree.nodes[gc1].height {
		keep, give = gc2, gc1
	}

	// Swap tall into index's position under the old parent.
	oldParent := tree.nodes[index].parent
	tree.nodes[tall].parent = oldParent
	tree.nodes[index].parent = tall
	if oldParent == NullNode {
		tree.root = tall
	} else if tree.nodes[oldParent].left == index {
		tree.nodes[oldParent].left = tall
	} else {
		tree.nodes[oldParent].right = tall
	}

	tree.nodes[tall].left = index
	tree.nodes[tall].right = keep

	// The slot that held tall now holds the demoted grandchild.
	if tree.nodes[index].left == tall {
		tree.nodes[index].left = give
	} else {
		tree.nodes[index].right = give
	}
	tree.nodes[give].parent = index

	tree.refresh(index)
	tree.refresh(tall)

	return tall
}

func (tree *DynamicTree) Query(queryCallback TreeQueryCallback, aabb AABB) {
	stack := make([]int, 0, 64)
	stack = append(stack, tree.root)

	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if index == NullNode {
			continue
		}

		if !TestOverlapBoundingBoxes(tree.nodes[index].aabb, aabb) {
			continue
		}

		if tree.nodes[index].isLeaf() {
			if !queryCallback(index) {
				return
			}
		} else {
			stack = append(stack, tree.nodes[index].left, tree.nodes[index].right)
		}
	}
}

/// Ray cast against every leaf the segment's swept box can reach. The
/// callback returns a new maximum fraction: zero stops the cast, smaller
/// values shrink the segment, and the input fraction leaves it alone.
func (tree DynamicTree) RayCast(rayCastCallback TreeRayCastCallback, input RayCastInput) {
	p1 := input.P1
	p2 := input.P2
	direction := p2.Sub(p1)
	Assert(direction.LengthSquared() > 0.0)
	direction.Normalize()

	// The separating-axis test below uses the segment normal.
	axis := CrossSV(1.0, direction)
	absAxis := axis.Abs()

	maxFraction := input.MaxFraction
	segmentBox := func() AABB {
		end := p1.Add(p2.Sub(p1).Scale(maxFraction))
		return AABB{LowerBound: p1.Min(end), UpperBound: p1.Max(end)}
	}
	box := segmentBox()

	stack := make([]int, 0, 64)
	stack = append(stack, tree.root)

	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if index == NullNode {
			continue
		}

		node := &tree.nodes[index]
		if !TestOverlapBoundingBoxes(node.aabb, box) {
			continue
		}

		// Separating axis: |axis . (p1 - center)| > extents . |axis|
		center := node.aabb.GetCenter()
		extents := node.aabb.GetExtents()
		if math.Abs(axis.Dot(p1.Sub(center)))-absAxis.Dot(extents) > 0.0 {
			continue
		}

		if !node.isLeaf() {
			stack = append(stack, node.left, node.right)
			continue
		}

		subInput := RayCastInput{P1: p1, P2: p2, MaxFraction: maxFraction}
		value := rayCastCallback(subInput, index)

		if value == 0.0 {
			// The client terminated the ray cast.
			return
		}
		if value > 0.0 {
			maxFraction = value
			box = segmentBox()
		}
	}
}

/// Height of the root, zero when empty.
func (tree DynamicTree) GetHeight() int {
	if tree.root == NullNode {
		return 0
	}
	return tree.nodes[tree.root].height
}

/// The largest height difference between any node's two children.
func (tree DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := range tree.nodes {
		node := &tree.nodes[i]
		if node.height < 2 {
			continue
		}
		Assert(!node.isLeaf())
		lean := AbsInt(tree.nodes[node.right].height - tree.nodes[node.left].height)
		maxBalance = MaxInt(maxBalance, lean)
	}
	return maxBalance
}

/// Sum of the perimeters of all live nodes (root and leaves included) over
/// the root perimeter; a quality metric where smaller is better. It is
/// never below 1, and a tree holding a single proxy gives exactly 1.
func (tree DynamicTree) GetAreaRatio() float64 {
	if tree.root == NullNode {
		return 0.0
	}

	rootArea := tree.nodes[tree.root].aabb.GetPerimeter()
	totalArea := 0.0
	for i := range tree.nodes {
		if tree.nodes[i].height < 0 {
			continue
		}
		totalArea += tree.nodes[i].aabb.GetPerimeter()
	}

	return totalArea / rootArea
}

func (tree DynamicTree) checkedHeight(index int) int {
	if tree.nodes[index].isLeaf() {
		return 0
	}
	h1 := tree.checkedHeight(tree.nodes[index].left)
	h2 := tree.checkedHeight(tree.nodes[index].right)
	return 1 + MaxInt(h1, h2)
}

func (tree DynamicTree) validateSubtree(index int) {
	if index == NullNode {
		return
	}

	node := &tree.nodes[index]

	if index == tree.root {
		Assert(node.parent == NullNode)
	}

	if node.isLeaf() {
		Assert(node.right == NullNode)
		Assert(node.height == 0)
		return
	}

	left := node.left
	right := node.right
	Assert(0 <= left && left < len(tree.nodes))
	Assert(0 <= right && right < len(tree.nodes))
	Assert(tree.nodes[left].parent == index)
	Assert(tree.nodes[right].parent == index)

	Assert(node.height == 1+MaxInt(tree.nodes[left].height, tree.nodes[right].height))

	var union AABB
	union.CombineTwoInPlace(tree.nodes[left].aabb, tree.nodes[right].aabb)
	Assert(union.LowerBound == node.aabb.LowerBound)
	Assert(union.UpperBound == node.aabb.UpperBound)

	tree.validateSubtree(left)
	tree.validateSubtree(right)
}

/// Consistency check of parent links, heights, and bounding boxes.
func (tree DynamicTree) Validate() {
	tree.validateSubtree(tree.root)

	if tree.root != NullNode {
		Assert(tree.GetHeight() == tree.checkedHeight(tree.root))
	}

	freeCount := 0
	for walk := tree.freeHead; walk != NullNode; walk = tree.nodes[walk].parent {
		Assert(0 <= walk && walk < len(tree.nodes))
		freeCount++
	}

	live := 0
	for i := range tree.nodes {
		if tree.nodes[i].height >= 0 {
			live++
		}
	}
	Assert(live+freeCount == len(tree.nodes))
}

/// Shift the origin of every stored box; used when the world re-centers.
func (tree *DynamicTree) ShiftOrigin(newOrigin Vec2) {
	for i := range tree.nodes {
		tree.nodes[i].aabb.LowerBound = tree.nodes[i].aabb.LowerBound.Sub(newOrigin)
		tree.nodes[i].aabb.UpperBound = tree.nodes[i].aabb.UpperBound.Sub(newOrigin)
	}
}
