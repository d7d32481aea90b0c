package utils

import "math/bits"

// BitmapFlag 位图下标
type BitmapFlag uint64

// Bitmap 位图标记
// @ 以句柄为下标记录集合成员，越界的下标读为假、写入忽略.
type Bitmap interface {
	Set(bit BitmapFlag, flag bool)  // 设置标记
	Get(bit BitmapFlag) (flag bool) // 获取标记
	Size() int                      // 位图大小
	FlagCount(flag bool) int        // 标记数量
}

// bitmapImpl 实现Bitmap接口
type bitmapImpl struct {
	words  []uint64
	length int
}

// NewBitmap 创建新的位图实例
func NewBitmap(size int) Bitmap {
	if size < 0 {
		size = 0
	}
	return &bitmapImpl{
		words:  make([]uint64, (size+63)/64),
		length: size,
	}
}

func (b *bitmapImpl) Set(bit BitmapFlag, flag bool) {
	if bit >= BitmapFlag(b.length) {
		return
	}
	if flag {
		b.words[bit/64] |= 1 << (bit % 64)
	} else {
		b.words[bit/64] &^= 1 << (bit % 64)
	}
}

func (b *bitmapImpl) Get(bit BitmapFlag) bool {
	if bit >= BitmapFlag(b.length) {
		return false
	}
	return b.words[bit/64]&(1<<(bit%64)) != 0
}

func (b *bitmapImpl) Size() int { return b.length }

func (b *bitmapImpl) FlagCount(flag bool) int {
	set := 0
	for _, w := range b.words {
		set += bits.OnesCount64(w)
	}
	if flag {
		return set
	}
	return b.length - set
}
