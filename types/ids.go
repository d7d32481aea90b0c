package types

// BranchID 支路句柄
type BranchID = int

// NodeID 节点句柄
type NodeID = int

// CycleID 回路句柄
type CycleID = int

// 无效句柄
const InvalidID = -1
