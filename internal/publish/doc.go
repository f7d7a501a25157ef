// Package publish stages a built release and hands the transfer to the
// configured uploader binary, then refreshes the dataset README and run log.
package publish
