// flow.go

package battle

import (
	"log"

	"github.com/jacl-coder/IdleRealm-Server/config"
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// RefreshState 战斗刷新条目
//
// 与恰好一场已结束战斗一一对应；冷却归零时孵化后续战斗，
// 若原始玩家无人存活则直接丢弃。
type RefreshState struct {
	BattleID        string
	Type            models.BattleType
	DungeonID       int
	Players         []*models.PlayerCombatant
	Composition     []models.EnemySpec
	Remaining       float64
	PlayerStrategy  models.TargetStrategy
	EnemyStrategy   models.TargetStrategy
	AllowAutoRevive bool
}

// FlowController 战后流程控制器
//
// 管理刷新倒计时并孵化后续战斗。自身不持锁，
// 所有调用都在管理器的互斥范围内发生。
type FlowController struct {
	cfg     config.BattleConfig
	catalog *catalog.Catalog
	pending []*RefreshState

	// 已登记过刷新的战斗ID。一场战斗同时出现在两个
	// 流程簿记结构中意味着双重登记缺陷，不是运行时错误。
	registered map[string]bool
}

// NewFlowController 创建流程控制器
func NewFlowController(cfg config.BattleConfig, cat *catalog.Catalog) *FlowController {
	return &FlowController{
		cfg:        cfg,
		catalog:    cat,
		pending:    make([]*RefreshState, 0),
		registered: make(map[string]bool),
	}
}

// OnBattleCompleted 登记一场已结束战斗的刷新条目
//
// 副本按通关冷却，单人/组队按普通冷却。敌人构成此刻捕获，
// 因为原始敌人列表已随击杀清空。
func (f *FlowController) OnBattleCompleted(b *Context) {
	if f.registered[b.ID] {
		// 契约违规：同一战斗被登记了两次
		log.Printf("战斗 %s 被重复登记到刷新流程，忽略", b.ID)
		return
	}
	f.registered[b.ID] = true

	cooldown := f.cfg.RefreshCooldown
	if b.Type == models.BattleDungeon {
		cooldown = f.cfg.DungeonRefreshCooldown
	}

	f.pending = append(f.pending, &RefreshState{
		BattleID:        b.ID,
		Type:            b.Type,
		DungeonID:       b.DungeonID,
		Players:         b.Players,
		Composition:     b.EnemyComposition(),
		Remaining:       cooldown,
		PlayerStrategy:  b.PlayerStrategy,
		EnemyStrategy:   b.EnemyStrategy,
		AllowAutoRevive: b.AllowAutoRevive,
	})
}

// ProcessRefreshTimers 推进刷新倒计时，返回孵化出的后续战斗
//
// 每个条目至多孵化一场战斗、恰好一次；无人存活则丢弃。
func (f *FlowController) ProcessRefreshTimers(dt float64) []*Context {
	spawned := make([]*Context, 0)
	remaining := f.pending[:0]

	for _, rs := range f.pending {
		rs.Remaining -= dt
		if rs.Remaining > 0 {
			remaining = append(remaining, rs)
			continue
		}

		delete(f.registered, rs.BattleID)
		if nb := f.spawnFollowOn(rs); nb != nil {
			spawned = append(spawned, nb)
		}
	}

	f.pending = remaining
	return spawned
}

// spawnFollowOn 孵化后续战斗，无人存活返回nil
func (f *FlowController) spawnFollowOn(rs *RefreshState) *Context {
	survivors := make([]*models.PlayerCombatant, 0, len(rs.Players))
	for _, p := range rs.Players {
		if p.IsAlive {
			survivors = append(survivors, p)
		}
	}
	if len(survivors) == 0 {
		return nil
	}

	// 副本刷新：从第一波重新开始一次完整副本
	if rs.Type == models.BattleDungeon && rs.DungeonID > 0 {
		dungeon, ok := f.catalog.Dungeon(rs.DungeonID)
		if !ok {
			log.Printf("刷新战斗失败: 副本 %d 不存在", rs.DungeonID)
			return nil
		}
		nb := newContext(models.BattleDungeon, survivors, f.cfg.MaxActionHistory)
		nb.Status = models.BattlePreparing
		nb.DungeonID = dungeon.ID
		nb.Dungeon = &dungeon
		nb.AllowAutoRevive = dungeon.AllowAutoRevive
		if err := nb.populateWave(f.catalog, 0); err != nil {
			log.Printf("刷新副本战斗失败: %v", err)
			return nil
		}
		nb.WaveNumber = 1
		nb.Status = models.BattleActive
		return nb
	}

	// 普通刷新：复用捕获的敌人构成，构成为空则按首名
	// 存活玩家的等级匹配兜底模板
	specs := rs.Composition
	if len(specs) == 0 {
		tpl, ok := f.catalog.MonsterForLevel(survivors[0].Level)
		if !ok {
			return nil
		}
		specs = []models.EnemySpec{{Name: tpl.Name, Count: 1}}
	}

	nb := newContext(rs.Type, survivors, f.cfg.MaxActionHistory)
	nb.PlayerStrategy = rs.PlayerStrategy
	nb.EnemyStrategy = rs.EnemyStrategy
	nb.AllowAutoRevive = rs.AllowAutoRevive
	for _, spec := range specs {
		for i := 0; i < spec.Count; i++ {
			enemy, err := f.catalog.SpawnEnemy(spec.Name, 0, 1.0)
			if err != nil {
				log.Printf("刷新战斗生成敌人失败: %v", err)
				continue
			}
			nb.Enemies = append(nb.Enemies, enemy)
		}
	}
	if len(nb.Enemies) == 0 {
		return nil
	}
	return nb
}

// IsPlayerInRefresh 角色是否处于刷新冷却中
func (f *FlowController) IsPlayerInRefresh(characterID int64) bool {
	return f.RefreshRemaining(characterID) > 0
}

// RefreshRemaining 角色剩余的刷新冷却时间(秒)，不在冷却中返回0
func (f *FlowController) RefreshRemaining(characterID int64) float64 {
	for _, rs := range f.pending {
		for _, p := range rs.Players {
			if p.CharacterID == characterID {
				return rs.Remaining
			}
		}
	}
	return 0
}
