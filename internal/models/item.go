// item.go

package models

// Item 物品模型(静态内容，只读)
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      int    `json:"rarity"` // 稀有度 1-5
	SellPrice   int64  `json:"sell_price"`
}
