package service

import (
	"fmt"
	"regexp"
	"strconv"
)

const orderNumberPrefix = "CRF-"

var orderNumberPattern = regexp.MustCompile(`^CRF-(\d+)$`)

// NextOrderNumber derives the order number following last.
// An empty or unparseable last number restarts the sequence at CRF-00001.
func NextOrderNumber(last string) string {
	seq := 0
	if m := orderNumberPattern.FindStringSubmatch(last); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%05d", orderNumberPrefix, seq+1)
}
