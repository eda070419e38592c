// Package keys derives deterministic cache keys from heterogeneous inputs.
//
// It provides SHA-256 based digests for raw payload strings (image data
// URIs) and canonical-JSON digests for structured inputs (questionnaire
// answers), plus namespace-prefixed key assembly and validation.
package keys
