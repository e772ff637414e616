// Package slowcount implements a maximum-likelihood variant of HyperLogLog
// for estimating the number of distinct items in a stream.
//
// Like HyperLogLog, the sketch keeps a fixed array of m small registers, each
// holding the maximum "rank" ever observed for its hash substream. Unlike the
// classical bucketed estimators, every item updates every register: the item
// is hashed once, and the resulting 32-bit seed is remixed m times so that
// each register receives its own pseudo-independent observation. This costs
// O(m) hash operations per item (hence the name), but it makes the register
// values independent samples of the same distribution, which keeps the
// likelihood simple enough to maximize directly.
//
// The Algorithm
// =============
//
// The rank of a 32-bit value is the number of consecutive set bits counting
// from the least significant bit. Modelling each bit of a well-mixed hash as a
// fair coin, the rank of one substream exceeds k-1 with probability 2^-k, so
// after n distinct items the probability that a register holds exactly k is
//
//	P(k | n) = (1 - 2^-(k+1))^n - (1 - 2^-k)^n
//
// The estimator searches for the n that maximizes the product of P(r_i | n)
// over all registers. It starts from the harmonic-mean estimate
// m / sum(2^-r_i) and applies a fixed number of Newton-Raphson steps to the
// derivative of the log-likelihood. The variance of the result is the negative
// reciprocal of the log-likelihood's curvature at the estimate (the inverse of
// the observed Fisher information).
//
// Zero Registers
// ==============
//
// Registers that still hold 0 are left out of the likelihood by default. Zero
// is a valid outcome under the model, so this biases the estimate upwards for
// very small cardinalities. WithZeroRegisters(true) includes them.
//
// Hash Families
// =============
//
// Chained (the default) hashes each item with djb2, mixes it once, and then
// walks the register array applying the avalanche mix between registers.
// Keyed hashes each item once with xxhash and derives the value for register
// i with a splitmix64 finalizer keyed by i. Both give each register an
// approximately independent observation; they do not produce the same
// registers for the same input.
package slowcount
