// context.go

package battle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// Dice 随机决策来源
//
// *rand.Rand 天然满足该接口；测试中用固定值替身。
type Dice interface {
	Float64() float64
	Intn(n int) int
}

// Context 单场战斗的完整状态
//
// 生命周期：Preparing(仅副本) → Active → Completed，
// Completed 为终态，到达当tick即被管理器移出活跃集合。
// 并发访问由管理器的互斥锁统一保护，战斗之间互不影响。
type Context struct {
	ID     string
	Type   models.BattleType
	Status models.BattleStatus

	// 参战双方。玩家引用与角色名册共享，战斗退出时回写；
	// 敌人由模板克隆，本场战斗独占。
	Players []*models.PlayerCombatant
	Enemies []*models.EnemyCombatant

	// 击杀后移入此处的尸体，供结算与日志引用
	Defeated []*models.EnemyCombatant

	// 粘性目标锁定：玩家ID → 敌人ID，目标死亡时清除
	PlayerTargets map[string]string

	PlayerStrategy models.TargetStrategy
	EnemyStrategy  models.TargetStrategy

	AllowAutoRevive bool
	Victory         bool

	// 副本相关
	DungeonID  int
	Dungeon    *models.DungeonTemplate
	WaveNumber int

	// 战斗日志(只追加，超出上限丢弃最旧的)
	Actions    []models.BattleAction
	maxActions int

	// 待外发的击杀事件，由管理器在锁外派发
	pendingKills []models.KillEvent

	CreatedAt time.Time
}

// newContext 创建战斗上下文
func newContext(btype models.BattleType, players []*models.PlayerCombatant, maxActions int) *Context {
	return &Context{
		ID:             uuid.New().String(),
		Type:           btype,
		Status:         models.BattleActive,
		Players:        players,
		Enemies:        make([]*models.EnemyCombatant, 0),
		Defeated:       make([]*models.EnemyCombatant, 0),
		PlayerTargets:  make(map[string]string),
		PlayerStrategy: models.TargetLowestHealth,
		EnemyStrategy:  models.TargetHighestThreat,
		maxActions:     maxActions,
		CreatedAt:      time.Now(),
	}
}

// LivingPlayers 存活玩家列表
func (b *Context) LivingPlayers() []*models.PlayerCombatant {
	living := make([]*models.PlayerCombatant, 0, len(b.Players))
	for _, p := range b.Players {
		if p.IsAlive {
			living = append(living, p)
		}
	}
	return living
}

// LivingEnemies 存活敌人列表
func (b *Context) LivingEnemies() []*models.EnemyCombatant {
	living := make([]*models.EnemyCombatant, 0, len(b.Enemies))
	for _, e := range b.Enemies {
		if e.IsAlive {
			living = append(living, e)
		}
	}
	return living
}

// AllPlayersDead 是否全体玩家阵亡
func (b *Context) AllPlayersDead() bool {
	for _, p := range b.Players {
		if p.IsAlive {
			return false
		}
	}
	return true
}

// HasPlayer 是否包含指定角色
func (b *Context) HasPlayer(characterID int64) bool {
	for _, p := range b.Players {
		if p.CharacterID == characterID {
			return true
		}
	}
	return false
}

// EnemyComposition 当前敌人构成(含尸体)，按模板名聚合
//
// 刷新战斗依赖此构成；必须在敌人列表清空前(即含 Defeated)统计。
func (b *Context) EnemyComposition() []models.EnemySpec {
	counts := make(map[string]int)
	order := make([]string, 0)
	tally := func(name string) {
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}
	for _, e := range b.Defeated {
		tally(e.TemplateName)
	}
	for _, e := range b.Enemies {
		tally(e.TemplateName)
	}

	specs := make([]models.EnemySpec, 0, len(order))
	for _, name := range order {
		specs = append(specs, models.EnemySpec{Name: name, Count: counts[name]})
	}
	return specs
}

// removeEnemy 将死亡敌人移出敌人列表并清除指向它的目标锁定
func (b *Context) removeEnemy(enemyID string) {
	for i, e := range b.Enemies {
		if e.ID == enemyID {
			b.Defeated = append(b.Defeated, e)
			b.Enemies = append(b.Enemies[:i], b.Enemies[i+1:]...)
			break
		}
	}
	for playerID, targetID := range b.PlayerTargets {
		if targetID == enemyID {
			delete(b.PlayerTargets, playerID)
		}
	}
}

// recordAction 追加战斗日志条目
func (b *Context) recordAction(action models.BattleAction) {
	action.ID = uuid.New().String()
	action.Time = time.Now()
	b.Actions = append(b.Actions, action)
	if b.maxActions > 0 && len(b.Actions) > b.maxActions {
		b.Actions = b.Actions[len(b.Actions)-b.maxActions:]
	}
}

// queueKill 登记击杀事件，待管理器在锁外派发
func (b *Context) queueKill(enemyName string) {
	ids := make([]int64, 0, len(b.Players))
	for _, p := range b.Players {
		ids = append(ids, p.CharacterID)
	}
	b.pendingKills = append(b.pendingKills, models.KillEvent{
		EnemyName:    enemyName,
		CharacterIDs: ids,
	})
}

// drainKills 取走并清空待派发的击杀事件
func (b *Context) drainKills() []models.KillEvent {
	kills := b.pendingKills
	b.pendingKills = nil
	return kills
}

// populateWave 按副本模板填充指定波次(0起)的敌人
func (b *Context) populateWave(cat *catalog.Catalog, waveIndex int) error {
	if b.Dungeon == nil {
		return fmt.Errorf("非副本战斗不能填充波次")
	}
	if waveIndex < 0 || waveIndex >= len(b.Dungeon.Waves) {
		return fmt.Errorf("波次越界: %d", waveIndex)
	}

	wave := b.Dungeon.Waves[waveIndex]
	enemies := make([]*models.EnemyCombatant, 0)
	for _, entry := range wave.Entries {
		for i := 0; i < entry.Count; i++ {
			enemy, err := cat.SpawnEnemy(entry.MonsterName, entry.LevelAdjustment, entry.HealthMultiplier)
			if err != nil {
				return fmt.Errorf("填充波次失败: %w", err)
			}
			enemies = append(enemies, enemy)
		}
	}

	b.Enemies = enemies
	return nil
}

// advanceWave 推进到下一波次，成功返回true
//
// 仅当当前波次敌人清空且仍有后续波次时调用；
// WaveNumber 单调递增且每次恰好加一。
func (b *Context) advanceWave(cat *catalog.Catalog) (bool, error) {
	if b.Dungeon == nil || b.WaveNumber >= b.Dungeon.WaveCount() {
		return false, nil
	}
	if err := b.populateWave(cat, b.WaveNumber); err != nil {
		return false, err
	}
	b.WaveNumber++
	return true, nil
}
