// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import "math"

// pSquareQuantile implements the P² algorithm (Jain & Chlamtac, 1985) for
// estimating a single quantile from a data stream in O(1) time and space,
// without retaining any samples.
type pSquareQuantile struct {
	p float64 // target quantile, e.g. 0.99

	initialized bool
	count       int
	buf         [5]float64 // used only to fill the first 5 markers

	// marker heights, positions and desired positions, indices 0..4
	q [5]float64
	n [5]int
	np [5]float64
	dn [5]float64
}

// newPSquareQuantile constructs an estimator for the given quantile, p in
// (0, 1).
func newPSquareQuantile(p float64) *pSquareQuantile {
	return &pSquareQuantile{p: p}
}

// observe feeds a single sample into the estimator.
func (e *pSquareQuantile) observe(x float64) {
	if !e.initialized {
		e.buf[e.count] = x
		e.count++
		if e.count < 5 {
			return
		}
		// sort the first 5 observations to seed the markers
		for i := 1; i < 5; i++ {
			for j := i; j > 0 && e.buf[j-1] > e.buf[j]; j-- {
				e.buf[j-1], e.buf[j] = e.buf[j], e.buf[j-1]
			}
		}
		for i := 0; i < 5; i++ {
			e.q[i] = e.buf[i]
			e.n[i] = i + 1
		}
		e.np[0] = 1
		e.np[1] = 1 + 2*e.p
		e.np[2] = 1 + 4*e.p
		e.np[3] = 3 + 2*e.p
		e.np[4] = 5
		e.dn[0] = 0
		e.dn[1] = e.p / 2
		e.dn[2] = e.p
		e.dn[3] = (1 + e.p) / 2
		e.dn[4] = 1
		e.initialized = true
		return
	}

	e.count++

	// find cell k such that q[k] <= x < q[k+1], clamping at the ends
	var k int
	switch {
	case x < e.q[0]:
		e.q[0] = x
		k = 0
	case x >= e.q[4]:
		e.q[4] = x
		k = 3
	default:
		k = 3
		for i := 1; i < 4; i++ {
			if x < e.q[i] {
				k = i - 1
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		e.n[i]++
	}
	for i := 0; i < 5; i++ {
		e.np[i] += e.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := e.np[i] - float64(e.n[i])
		if (d >= 1 && e.n[i+1]-e.n[i] > 1) || (d <= -1 && e.n[i-1]-e.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qp := e.parabolic(i, sign)
			if e.q[i-1] < qp && qp < e.q[i+1] {
				e.q[i] = qp
			} else {
				e.q[i] = e.linear(i, sign)
			}
			e.n[i] += sign
		}
	}
}

func (e *pSquareQuantile) parabolic(i, d int) float64 {
	dd := float64(d)
	return e.q[i] + dd/float64(e.n[i+1]-e.n[i-1])*
		((float64(e.n[i]-e.n[i-1])+dd)*(e.q[i+1]-e.q[i])/float64(e.n[i+1]-e.n[i])+
			(float64(e.n[i+1]-e.n[i])-dd)*(e.q[i]-e.q[i-1])/float64(e.n[i]-e.n[i-1]))
}

func (e *pSquareQuantile) linear(i, d int) float64 {
	return e.q[i] + float64(d)*(e.q[i+d]-e.q[i])/float64(e.n[i+d]-e.n[i])
}

// value returns the current quantile estimate, or NaN if no samples have
// been observed. With 1 to 4 samples it returns the nearest-rank value of
// the samples seen so far.
func (e *pSquareQuantile) value() float64 {
	if !e.initialized {
		if e.count == 0 {
			return math.NaN()
		}
		// fewer than 5 samples seen so far: best effort, sort what we have
		buf := e.buf[:e.count]
		for i := 1; i < len(buf); i++ {
			for j := i; j > 0 && buf[j-1] > buf[j]; j-- {
				buf[j-1], buf[j] = buf[j], buf[j-1]
			}
		}
		idx := int(e.p * float64(len(buf)-1))
		return buf[idx]
	}
	return e.q[2]
}
