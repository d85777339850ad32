// Package glmpath implements the numerical core of a regularized
// generalized-linear-model path solver: coordinate descent over an
// elastic-net penalty, driven across a grid of penalty strengths with
// warm starts, strong-rules screening, and KKT verification.
//
// The package does not choose hyperparameters, perform model selection,
// compute standard errors, or handle missing values — those are the
// caller's responsibility. Cross-validation, coefficient unstandardization,
// argument validation against raw user input, and the Cox partial-likelihood
// family are external collaborators, not part of this core.
package glmpath
