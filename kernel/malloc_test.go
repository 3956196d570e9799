package main

import (
	"testing"
	"unsafe"
)

func TestMallocInitBucketSizes(t *testing.T) {
	mallocInit()

	for i := range buckets {
		want := uintptr(1) << (minBlockOrder + i)
		if buckets[i].blockSize != want {
			t.Errorf("buckets[%d].blockSize = %d, want %d", i, buckets[i].blockSize, want)
		}
		if !listEmpty(&buckets[i].superblocks) {
			t.Errorf("buckets[%d].superblocks should start empty", i)
		}
	}
}

func TestBucketIndexForSize(t *testing.T) {
	mallocInit()

	smallest := buckets[0].blockSize
	if got := bucketIndexForSize(1); got != 0 {
		t.Errorf("bucketIndexForSize(1) = %d, want 0", got)
	}
	if got := bucketIndexForSize(smallest); got != 0 {
		t.Errorf("bucketIndexForSize(%d) = %d, want 0", smallest, got)
	}
	if got := bucketIndexForSize(smallest + 1); got != 1 {
		t.Errorf("bucketIndexForSize(%d) = %d, want 1", smallest+1, got)
	}

	largest := buckets[numBucket-1].blockSize
	if got := bucketIndexForSize(largest); got != numBucket-1 {
		t.Errorf("bucketIndexForSize(%d) = %d, want %d", largest, got, numBucket-1)
	}
	if got := bucketIndexForSize(largest + 1); got != -1 {
		t.Errorf("bucketIndexForSize(%d) = %d, want -1 (falls to uniblock)", largest+1, got)
	}
}

func TestHeaderReserve(t *testing.T) {
	for _, blockSize := range []uintptr{16, 32, 64, 128, pageSize} {
		reserve := headerReserve(blockSize)

		if reserve%blockSize != 0 {
			t.Errorf("headerReserve(%d) = %d, not a multiple of blockSize", blockSize, reserve)
		}
		if reserve < unsafe.Sizeof(sblockHeader{}) {
			t.Errorf("headerReserve(%d) = %d, smaller than the header itself", blockSize, reserve)
		}
	}
}
