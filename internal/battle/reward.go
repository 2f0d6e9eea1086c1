// reward.go

package battle

import (
	"log"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// InventorySink 背包写入口
//
// 单个玩家写入失败(如背包已满)不得中断其他玩家的结算。
type InventorySink interface {
	AddItem(characterID int64, itemID int, quantity int) error
}

// Distributor 战利品与奖励分配器
//
// 只负责产出聚合的奖励数字；落到持久角色记录由角色名册完成。
type Distributor struct {
	catalog   *catalog.Catalog
	dice      Dice
	inventory InventorySink
}

// NewDistributor 创建奖励分配器
func NewDistributor(cat *catalog.Catalog, dice Dice, inventory InventorySink) *Distributor {
	if inventory == nil {
		inventory = noopInventory{}
	}
	return &Distributor{catalog: cat, dice: dice, inventory: inventory}
}

// noopInventory 空背包实现，集成方未接入时使用
type noopInventory struct{}

func (noopInventory) AddItem(int64, int, int) error { return nil }

// CalculateRewards 结算一场已结束战斗的奖励
//
// 胜利时按战斗类型取不同来源：普通战斗汇总被击败敌人的掉落，
// 副本战斗改用副本模板的奖励表。失败时返回零收益结果。
func (d *Distributor) CalculateRewards(b *Context, victory bool) *models.RewardResult {
	result := &models.RewardResult{
		BattleID:        b.ID,
		Victory:         victory,
		GoldByCharacter: make(map[int64]int64),
		ExpByCharacter:  make(map[int64]int64),
	}

	if !victory {
		return result
	}

	survivors := b.LivingPlayers()
	if len(survivors) == 0 {
		return result
	}

	if b.Type == models.BattleDungeon && b.Dungeon != nil {
		d.rollDungeonRewards(b, survivors, result)
	} else {
		d.sumEnemyDrops(b, survivors, result)
	}

	// 回写本场战斗内的累计，供名册统计
	for _, p := range b.Players {
		p.GoldGained += result.GoldByCharacter[p.CharacterID]
		p.ExpGained += result.ExpByCharacter[p.CharacterID]
	}

	return result
}

// sumEnemyDrops 普通战斗：汇总被击败敌人的金币区间样本与经验
//
// 收益在战斗结束时仍存活的玩家间均分；整除余数不丢弃，
// 全部补给随机一名存活玩家。
func (d *Distributor) sumEnemyDrops(b *Context, survivors []*models.PlayerCombatant, result *models.RewardResult) {
	var totalGold, totalExp int64
	for _, e := range b.Defeated {
		gold := int64(e.GoldMin)
		if span := e.GoldMax - e.GoldMin; span > 0 {
			gold += int64(d.dice.Intn(span + 1))
		}
		totalGold += gold
		totalExp += int64(e.ExpReward)
	}

	result.TotalGold = totalGold
	result.TotalExp = totalExp
	d.splitEvenly(survivors, totalGold, result.GoldByCharacter)
	d.splitEvenly(survivors, totalExp, result.ExpByCharacter)
}

// splitEvenly 均分并把余数补给随机一名玩家，保证总量守恒
func (d *Distributor) splitEvenly(survivors []*models.PlayerCombatant, total int64, out map[int64]int64) {
	if total <= 0 {
		return
	}
	n := int64(len(survivors))
	share := total / n
	remainder := total % n

	for _, p := range survivors {
		out[p.CharacterID] += share
	}
	if remainder > 0 {
		lucky := survivors[d.dice.Intn(len(survivors))]
		out[lucky.CharacterID] += remainder
	}
}

// rollDungeonRewards 副本战斗：逐条独立掷骰副本奖励表
//
// 命中的条目把金币/经验发给每名存活玩家；物品只发给
// 随机一名存活玩家，避免唯一掉落人手一份。
func (d *Distributor) rollDungeonRewards(b *Context, survivors []*models.PlayerCombatant, result *models.RewardResult) {
	for _, reward := range b.Dungeon.Rewards {
		if d.dice.Float64() >= reward.DropChance {
			continue
		}

		for _, p := range survivors {
			result.GoldByCharacter[p.CharacterID] += reward.Gold
			result.ExpByCharacter[p.CharacterID] += reward.Exp
			result.TotalGold += reward.Gold
			result.TotalExp += reward.Exp
		}

		if reward.ItemID > 0 && reward.Quantity > 0 {
			lucky := survivors[d.dice.Intn(len(survivors))]
			drop := models.ItemDrop{
				CharacterID: lucky.CharacterID,
				ItemID:      reward.ItemID,
				Quantity:    reward.Quantity,
			}
			if err := d.inventory.AddItem(drop.CharacterID, drop.ItemID, drop.Quantity); err != nil {
				// 写入失败不影响其他玩家的结算
				log.Printf("物品入包失败: 角色=%d 物品=%d: %v", drop.CharacterID, drop.ItemID, err)
			} else {
				result.Items = append(result.Items, drop)
			}
		}
	}
}
