package utils

import (
	"math/rand"
	"sync"
	"time"
)

// AvatarColors is the palette new profiles draw their avatar color from.
var AvatarColors = []string{
	"#7B1B1B", "#C9963E", "#2563EB", "#7C3AED", "#059669", "#DC2626",
	"#D97706", "#6B7280", "#9333EA", "#0891B2", "#BE185D", "#65A30D",
}

var (
	randMu        sync.Mutex
	randGenerator = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func RandomAvatarColor() string {
	randMu.Lock()
	defer randMu.Unlock()
	return AvatarColors[randGenerator.Intn(len(AvatarColors))]
}
