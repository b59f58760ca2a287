package planar

import (
	"sort"
)

type BroadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

/// A candidate proxy pair, ordered so the lower id comes first.
type Pair struct {
	ProxyIdA int
	ProxyIdB int
}

const nullProxy = -1

/// The broad-phase wraps the dynamic tree with pair management: proxies
/// that moved since the last update are queried against the tree and
/// every overlapping pair is reported exactly once per UpdatePairs call.
type BroadPhase struct {
	Tree DynamicTree

	ProxyCount int

	moved []int
	pairs []Pair

	queryProxyId int
}

func MakeBroadPhase() BroadPhase {
	return BroadPhase{
		Tree:  MakeDynamicTree(),
		moved: make([]int, 0, 16),
		pairs: make([]Pair, 0, 16),
	}
}

func (bp BroadPhase) GetUserData(proxyId int) interface{} {
	return bp.Tree.GetUserData(proxyId)
}

func (bp BroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return TestOverlapBoundingBoxes(
		bp.Tree.GetFatAABB(proxyIdA),
		bp.Tree.GetFatAABB(proxyIdB),
	)
}

func (bp BroadPhase) GetFatAABB(proxyId int) AABB {
	return bp.Tree.GetFatAABB(proxyId)
}

func (bp BroadPhase) GetProxyCount() int {
	return bp.ProxyCount
}

func (bp BroadPhase) GetTreeHeight() int {
	return bp.Tree.GetHeight()
}

func (bp BroadPhase) GetTreeBalance() int {
	return bp.Tree.GetMaxBalance()
}

func (bp BroadPhase) GetTreeQuality() float64 {
	return bp.Tree.GetAreaRatio()
}

/// Register a proxy and mark it moved so the next UpdatePairs sees it.
func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	proxyId := bp.Tree.CreateProxy(aabb, userData)
	bp.ProxyCount++
	bp.markMoved(proxyId)
	return proxyId
}

func (bp *BroadPhase) DestroyProxy(proxyId int) {
	bp.unmarkMoved(proxyId)
	bp.ProxyCount--
	bp.Tree.DestroyProxy(proxyId)
}

/// Move a proxy; it only joins the moved set when the tree actually had
/// to re-insert it.
func (bp *BroadPhase) MoveProxy(proxyId int, aabb AABB, displacement Vec2) {
	if bp.Tree.MoveProxy(proxyId, aabb, displacement) {
		bp.markMoved(proxyId)
	}
}

/// Force pair generation for a proxy that did not move, e.g. after its
/// filter data changed.
func (bp *BroadPhase) TouchProxy(proxyId int) {
	bp.markMoved(proxyId)
}

func (bp *BroadPhase) markMoved(proxyId int) {
	bp.moved = append(bp.moved, proxyId)
}

func (bp *BroadPhase) unmarkMoved(proxyId int) {
	for i := range bp.moved {
		if bp.moved[i] == proxyId {
			bp.moved[i] = nullProxy
		}
	}
}

/// Collect pairs while the tree query runs for the current moved proxy.
func (bp *BroadPhase) QueryCallback(proxyId int) bool {
	// A proxy never pairs with itself.
	if proxyId == bp.queryProxyId {
		return true
	}

	bp.pairs = append(bp.pairs, Pair{
		ProxyIdA: MinInt(proxyId, bp.queryProxyId),
		ProxyIdB: MaxInt(proxyId, bp.queryProxyId),
	})

	return true
}

/// Emit every overlapping pair that involves a moved proxy, each at most
/// once, then clear the moved set.
func (bp *BroadPhase) UpdatePairs(addPairCallback BroadPhaseAddPairCallback) {
	bp.pairs = bp.pairs[:0]

	// Query the tree with each moved proxy's fat AABB; touching fat boxes
	// may touch for real soon, and the contact manager wants them early.
	for _, proxyId := range bp.moved {
		if proxyId == nullProxy {
			continue
		}
		bp.queryProxyId = proxyId
		bp.Tree.Query(bp.QueryCallback, bp.Tree.GetFatAABB(proxyId))
	}
	bp.moved = bp.moved[:0]

	// Sort so duplicates (both ends moved) become adjacent, then emit
	// each unique pair once.
	sort.Slice(bp.pairs, func(i, j int) bool {
		if bp.pairs[i].ProxyIdA != bp.pairs[j].ProxyIdA {
			return bp.pairs[i].ProxyIdA < bp.pairs[j].ProxyIdA
		}
		return bp.pairs[i].ProxyIdB < bp.pairs[j].ProxyIdB
	})

	for i := 0; i < len(bp.pairs); {
		pair := bp.pairs[i]
		addPairCallback(bp.Tree.GetUserData(pair.ProxyIdA), bp.Tree.GetUserData(pair.ProxyIdB))

		i++
		for i < len(bp.pairs) && bp.pairs[i] == pair {
			i++
		}
	}
}

func (bp *BroadPhase) Query(callback TreeQueryCallback, aabb AABB) {
	bp.Tree.Query(callback, aabb)
}

func (bp *BroadPhase) RayCast(callback TreeRayCastCallback, input RayCastInput) {
	bp.Tree.RayCast(callback, input)
}

func (bp *BroadPhase) ShiftOrigin(newOrigin Vec2) {
	bp.Tree.ShiftOrigin(newOrigin)
}
