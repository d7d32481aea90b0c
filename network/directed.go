package network

import "electric/types"

// DirectedBranch 回路遍历中的支路视图
type DirectedBranch struct {
	Branch *Branch         // 支路
	Active types.Direction // 回路遍历方向
}

// MatchesStoredDirection 遍历方向是否与支路当前方向一致，每次调用重新比较
func (d DirectedBranch) MatchesStoredDirection() bool {
	return d.Active == d.Branch.Direction()
}
