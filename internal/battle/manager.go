// manager.go

package battle

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/jacl-coder/IdleRealm-Server/config"
	"github.com/jacl-coder/IdleRealm-Server/internal/catalog"
	"github.com/jacl-coder/IdleRealm-Server/internal/models"
)

// CharacterRoster 角色名册协作方
//
// 名册持有持久角色记录；战斗核心读取攻击属性，
// 战斗退出时把血量/冷却/死亡标记与收益回写。
type CharacterRoster interface {
	Combatant(characterID int64) (*models.PlayerCombatant, error)
	CommitBattleResult(players []*models.PlayerCombatant, result *models.RewardResult, dungeonClear bool)
}

// Notifier 战斗事件推送通道(fire-and-forget)
//
// 接收方可能已离线，推送失败不得影响战斗推进。
type Notifier interface {
	BattleStarted(characterIDs []int64, battleID string, battleType models.BattleType)
	BattleCompleted(characterIDs []int64, result *models.RewardResult)
}

// QuestSink 任务进度回写，每次击杀每名玩家调用一次
type QuestSink interface {
	UpdateProgress(characterID int64, questType string, targetID string, amount int)
}

// StatsRecorder 战斗统计累计(排行榜等)
type StatsRecorder interface {
	RecordBattleResult(result *models.RewardResult, killsByCharacter map[int64]int, dungeonClear bool)
}

// 空实现：集成方未接入对应协作方时使用
type noopNotifier struct{}

func (noopNotifier) BattleStarted([]int64, string, models.BattleType) {}
func (noopNotifier) BattleCompleted([]int64, *models.RewardResult)    {}

type noopQuestSink struct{}

func (noopQuestSink) UpdateProgress(int64, string, string, int) {}

type noopStats struct{}

func (noopStats) RecordBattleResult(*models.RewardResult, map[int64]int, bool) {}

// Manager 战斗管理器
//
// 持有全部活跃战斗，驱动每tick的遍历结算。模拟本身是
// 单线程协作式的：一把互斥锁覆盖整个tick遍历和每个外部
// 变更调用；战斗之间互不交互，无需更细粒度的锁。
// 持久化、推送等阻塞操作一律推迟到锁释放之后。
type Manager struct {
	mu      sync.Mutex
	cfg     config.BattleConfig
	battles map[string]*Context

	catalog     *catalog.Catalog
	roster      CharacterRoster
	engine      *SkillEngine
	resolver    *Resolver
	distributor *Distributor
	flow        *FlowController
	dice        Dice

	notifier Notifier
	quests   QuestSink
	stats    StatsRecorder

	// tick循环控制
	shutdown  chan struct{}
	isRunning bool
}

// NewManager 创建战斗管理器
//
// 结算器、技能引擎、流程控制器在此一并构造，避免
// 任何反射注入；跨组件协作方通过 WireCollaborators
// 显式二段装配。
func NewManager(cfg config.BattleConfig, cat *catalog.Catalog, roster CharacterRoster) *Manager {
	dice := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := NewSkillEngine(cat)

	return &Manager{
		cfg:         cfg,
		battles:     make(map[string]*Context),
		catalog:     cat,
		roster:      roster,
		engine:      engine,
		resolver:    NewResolver(engine, cfg.MitigationK, cfg.RevivalDuration, dice),
		distributor: NewDistributor(cat, dice, nil),
		flow:        NewFlowController(cfg, cat),
		dice:        dice,
		notifier:    noopNotifier{},
		quests:      noopQuestSink{},
		stats:       noopStats{},
		shutdown:    make(chan struct{}),
	}
}

// WireCollaborators 装配横切协作方(二段式，nil保持空实现)
func (m *Manager) WireCollaborators(notifier Notifier, quests QuestSink, inventory InventorySink, stats StatsRecorder) {
	if notifier != nil {
		m.notifier = notifier
	}
	if quests != nil {
		m.quests = quests
	}
	if inventory != nil {
		m.distributor.inventory = inventory
	}
	if stats != nil {
		m.stats = stats
	}
}

// Start 启动tick循环
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isRunning {
		return fmt.Errorf("战斗管理器已经在运行")
	}
	m.isRunning = true

	go m.tickLoop()
	log.Printf("战斗管理器启动，步长 %.2fs", m.cfg.TickInterval)
	return nil
}

// Stop 停止tick循环
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isRunning {
		return
	}
	close(m.shutdown)
	m.isRunning = false
	log.Println("战斗管理器已停止")
}

// tickLoop 固定间隔驱动模拟
//
// dt固定等于配置步长，不做墙钟漂移校正：所有游戏时间
// 效果的粒度下界就是tick间隔。
func (m *Manager) tickLoop() {
	interval := time.Duration(m.cfg.TickInterval * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.ProcessAllBattles(m.cfg.TickInterval)
		case <-m.shutdown:
			return
		}
	}
}

// ProcessAllBattles 推进一个tick：遍历活跃战斗、收尾、刷新
//
// 外部调度入口。一次调用内：复活簿记 → 玩家攻击 → 敌人攻击
// → 完成检查；完成的战斗当tick移出活跃集合并交给流程控制器；
// 最后推进刷新倒计时并接收孵化的后续战斗。
func (m *Manager) ProcessAllBattles(dt float64) {
	m.mu.Lock()

	for _, b := range m.battles {
		if b.Status != models.BattleActive {
			continue
		}
		m.processBattle(b, dt)
	}

	// 收集并移除已完成的战斗
	completed := make([]*Context, 0)
	for id, b := range m.battles {
		if b.Status == models.BattleCompleted {
			delete(m.battles, id)
			m.flow.OnBattleCompleted(b)
			completed = append(completed, b)
		}
	}

	// 刷新倒计时与后续战斗孵化
	spawned := m.flow.ProcessRefreshTimers(dt)
	for _, nb := range spawned {
		m.battles[nb.ID] = nb
	}

	// 收集待派发的击杀事件
	kills := make([]models.KillEvent, 0)
	for _, b := range m.battles {
		kills = append(kills, b.drainKills()...)
	}
	for _, b := range completed {
		kills = append(kills, b.drainKills()...)
	}

	m.mu.Unlock()

	// 锁外延迟处理：结算、回写、推送、统计
	m.afterTick(completed, spawned, kills)
}

// processBattle 推进单场战斗一个tick
func (m *Manager) processBattle(b *Context, dt float64) {
	// 复活簿记先于双方攻击
	m.resolver.ProcessRevivals(b, dt)

	for _, p := range b.Players {
		if p.IsAlive {
			m.resolver.ProcessPlayerAttack(b, p, dt)
		}
	}

	// 敌人列表会因死亡被原地修改，遍历快照
	enemies := append([]*models.EnemyCombatant(nil), b.Enemies...)
	for _, e := range enemies {
		if e.IsAlive {
			m.resolver.ProcessEnemyAttack(b, e, dt)
		}
	}

	m.checkCompletion(b)
}

// checkCompletion 完成检查与副本波次推进
func (m *Manager) checkCompletion(b *Context) {
	if len(b.LivingEnemies()) == 0 {
		// 副本仍有后续波次：重填敌人，状态保持Active
		if b.Type == models.BattleDungeon {
			advanced, err := b.advanceWave(m.catalog)
			if err != nil {
				log.Printf("战斗 %s 波次推进失败: %v", b.ID, err)
			}
			if advanced {
				return
			}
		}
		b.Status = models.BattleCompleted
		b.Victory = true
		return
	}

	// 全灭且不自动复活才判负；允许复活则继续等待复活倒计时
	if b.AllPlayersDead() && !b.AllowAutoRevive {
		b.Status = models.BattleCompleted
		b.Victory = false
	}
}

// afterTick 锁外的延迟处理
func (m *Manager) afterTick(completed []*Context, spawned []*Context, kills []models.KillEvent) {
	for _, b := range completed {
		// 战斗已移出活跃集合，此刻为本协程独占
		result := m.distributor.CalculateRewards(b, b.Victory)
		dungeonClear := b.Victory && b.Type == models.BattleDungeon

		m.roster.CommitBattleResult(b.Players, result, dungeonClear)

		killsByCharacter := make(map[int64]int)
		ids := make([]int64, 0, len(b.Players))
		for _, p := range b.Players {
			ids = append(ids, p.CharacterID)
			killsByCharacter[p.CharacterID] = p.Kills
		}
		m.stats.RecordBattleResult(result, killsByCharacter, dungeonClear)
		m.notifier.BattleCompleted(ids, result)
	}

	for _, nb := range spawned {
		ids := make([]int64, 0, len(nb.Players))
		for _, p := range nb.Players {
			ids = append(ids, p.CharacterID)
		}
		m.notifier.BattleStarted(ids, nb.ID, nb.Type)
	}

	for _, kill := range kills {
		for _, characterID := range kill.CharacterIDs {
			m.quests.UpdateProgress(characterID, "kill", kill.EnemyName, 1)
		}
	}
}

// StartSoloBattle 开始单人战斗
func (m *Manager) StartSoloBattle(characterID int64, monsterName string) (string, error) {
	return m.startMonsterBattle([]int64{characterID}, models.BattleSolo, monsterName)
}

// StartPartyBattle 开始组队战斗
func (m *Manager) StartPartyBattle(characterIDs []int64, monsterName string) (string, error) {
	if len(characterIDs) < 2 {
		return "", fmt.Errorf("组队战斗至少需要2名角色")
	}
	return m.startMonsterBattle(characterIDs, models.BattleParty, monsterName)
}

// startMonsterBattle 单人/组队战斗的公共路径
//
// 敌人数量由队伍规模决定；同敌人重复开战幂等返回现有
// 战斗，不同敌人先拆除旧战斗。
func (m *Manager) startMonsterBattle(characterIDs []int64, btype models.BattleType, monsterName string) (string, error) {
	if _, ok := m.catalog.Monster(monsterName); !ok {
		return "", fmt.Errorf("未知的怪物: %s", monsterName)
	}

	count := determineEnemyCount(len(characterIDs))
	specs := make([]models.EnemySpec, 0, 1)
	specs = append(specs, models.EnemySpec{Name: monsterName, Count: count})

	return m.startBattle(characterIDs, btype, specs, 0)
}

// StartMultiEnemyBattle 开始指定敌人构成的战斗
func (m *Manager) StartMultiEnemyBattle(characterIDs []int64, specs []models.EnemySpec) (string, error) {
	if len(specs) == 0 {
		return "", fmt.Errorf("敌人列表不能为空")
	}
	for _, spec := range specs {
		if _, ok := m.catalog.Monster(spec.Name); !ok {
			return "", fmt.Errorf("未知的怪物: %s", spec.Name)
		}
		if spec.Count <= 0 {
			return "", fmt.Errorf("敌人数量必须为正: %s", spec.Name)
		}
	}

	btype := models.BattleSolo
	if len(characterIDs) > 1 {
		btype = models.BattleParty
	}

	return m.startBattle(characterIDs, btype, specs, 0)
}

// StartDungeonBattle 开始副本战斗
func (m *Manager) StartDungeonBattle(characterIDs []int64, dungeonID int) (string, error) {
	dungeon, ok := m.catalog.Dungeon(dungeonID)
	if !ok {
		return "", fmt.Errorf("未知的副本: %d", dungeonID)
	}
	if len(characterIDs) < dungeon.MinPlayers || len(characterIDs) > dungeon.MaxPlayers {
		return "", fmt.Errorf("副本 %s 需要 %d-%d 名玩家", dungeon.Name, dungeon.MinPlayers, dungeon.MaxPlayers)
	}

	return m.startBattle(characterIDs, models.BattleDungeon, nil, dungeonID)
}

// startBattle 加锁创建战斗；拆除旧战斗时名册回写用
// 持锁期间拍下的快照，在锁释放后提交
func (m *Manager) startBattle(characterIDs []int64, btype models.BattleType, specs []models.EnemySpec, dungeonID int) (string, error) {
	m.mu.Lock()
	battleID, torn, err := m.startLocked(characterIDs, btype, specs, dungeonID)
	m.mu.Unlock()

	if torn != nil {
		m.roster.CommitBattleResult(torn, nil, false)
	}
	return battleID, err
}

// startLocked 战斗创建的统一路径(调用方持锁)
func (m *Manager) startLocked(characterIDs []int64, btype models.BattleType, specs []models.EnemySpec, dungeonID int) (string, []*models.PlayerCombatant, error) {
	if len(characterIDs) == 0 {
		return "", nil, fmt.Errorf("角色列表不能为空")
	}

	// 刷新冷却中的角色不能手动开战；流程控制器的内部
	// 孵化不走此路径，自然绕过该检查
	for _, id := range characterIDs {
		if m.flow.IsPlayerInRefresh(id) {
			return "", nil, fmt.Errorf("角色 %d 正在刷新冷却中(剩余 %.1fs)", id, m.flow.RefreshRemaining(id))
		}
	}

	// 已有战斗：同敌人视为幂等成功，不同敌人先拆除
	var torn []*models.PlayerCombatant
	if existing := m.findBattleForPlayersLocked(characterIDs); existing != nil {
		if m.sameOpponent(existing, btype, specs, dungeonID) {
			return existing.ID, nil, nil
		}
		torn = m.teardownLocked(existing)
	}

	players := make([]*models.PlayerCombatant, 0, len(characterIDs))
	for _, id := range characterIDs {
		p, err := m.roster.Combatant(id)
		if err != nil {
			return "", torn, fmt.Errorf("获取角色失败: %w", err)
		}
		players = append(players, p)
	}

	b := newContext(btype, players, m.cfg.MaxActionHistory)

	if btype == models.BattleDungeon {
		dungeon, _ := m.catalog.Dungeon(dungeonID)
		b.Status = models.BattlePreparing
		b.DungeonID = dungeon.ID
		b.Dungeon = &dungeon
		b.AllowAutoRevive = dungeon.AllowAutoRevive
		if err := b.populateWave(m.catalog, 0); err != nil {
			return "", torn, err
		}
		b.WaveNumber = 1
		b.Status = models.BattleActive
	} else {
		b.AllowAutoRevive = m.cfg.SoloAutoRevive
		for _, spec := range specs {
			for i := 0; i < spec.Count; i++ {
				enemy, err := m.catalog.SpawnEnemy(spec.Name, 0, 1.0)
				if err != nil {
					return "", torn, err
				}
				b.Enemies = append(b.Enemies, enemy)
			}
		}
	}

	m.battles[b.ID] = b
	log.Printf("创建战斗: %s 类型=%s 玩家=%d 敌人=%d", b.ID, b.Type, len(b.Players), len(b.Enemies))

	go m.notifier.BattleStarted(append([]int64(nil), characterIDs...), b.ID, b.Type)
	return b.ID, torn, nil
}

// sameOpponent 现有战斗是否与请求的对手相同
func (m *Manager) sameOpponent(b *Context, btype models.BattleType, specs []models.EnemySpec, dungeonID int) bool {
	if b.Type != btype {
		return false
	}
	if btype == models.BattleDungeon {
		return b.DungeonID == dungeonID
	}
	if len(specs) == 0 {
		return false
	}
	return primaryEnemyName(b) == specs[0].Name
}

// primaryEnemyName 战斗的主要敌人模板名
func primaryEnemyName(b *Context) string {
	if len(b.Enemies) > 0 {
		return b.Enemies[0].TemplateName
	}
	if len(b.Defeated) > 0 {
		return b.Defeated[0].TemplateName
	}
	return ""
}

// teardownLocked 拆除一场战斗(调用方持锁)：不走胜负结算，
// 不登记刷新。返回持锁期间拍下的玩家快照，调用方在锁外
// 用快照提交回写——化身是共享引用，拆除后可能立即进入
// 新战斗被tick修改，名册不得再碰活体
func (m *Manager) teardownLocked(b *Context) []*models.PlayerCombatant {
	delete(m.battles, b.ID)
	b.Status = models.BattleCompleted

	snapshot := make([]*models.PlayerCombatant, 0, len(b.Players))
	for _, p := range b.Players {
		cp := *p
		snapshot = append(snapshot, &cp)
		// 战斗范围的累计趁持锁清零，下一场重新统计
		p.Kills = 0
		p.GoldGained = 0
		p.ExpGained = 0
	}
	log.Printf("拆除战斗: %s", b.ID)
	return snapshot
}

// ForceEndBattle 管理性终止，绕过正常的胜负判定
func (m *Manager) ForceEndBattle(battleID string) error {
	m.mu.Lock()
	b, ok := m.battles[battleID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("战斗不存在: %s", battleID)
	}
	torn := m.teardownLocked(b)
	m.mu.Unlock()

	m.roster.CommitBattleResult(torn, nil, false)
	return nil
}

// findBattleForPlayersLocked 查找包含任一指定角色的战斗(调用方持锁)
func (m *Manager) findBattleForPlayersLocked(characterIDs []int64) *Context {
	for _, b := range m.battles {
		for _, id := range characterIDs {
			if b.HasPlayer(id) {
				return b
			}
		}
	}
	return nil
}

// GetBattleForPlayer 查询角色所在战斗的快照
func (m *Manager) GetBattleForPlayer(characterID int64) (*BattleView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.battles {
		if b.HasPlayer(characterID) {
			return snapshotBattle(b), true
		}
	}
	return nil, false
}

// GetBattleForParty 查询包含全部指定角色的战斗快照
func (m *Manager) GetBattleForParty(characterIDs []int64) (*BattleView, bool) {
	if len(characterIDs) == 0 {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.battles {
		all := true
		for _, id := range characterIDs {
			if !b.HasPlayer(id) {
				all = false
				break
			}
		}
		if all {
			return snapshotBattle(b), true
		}
	}
	return nil, false
}

// IsPlayerInRefresh 角色是否处于刷新冷却中
func (m *Manager) IsPlayerInRefresh(characterID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flow.IsPlayerInRefresh(characterID)
}

// PlayerRefreshRemaining 角色剩余刷新冷却时间(秒)
func (m *Manager) PlayerRefreshRemaining(characterID int64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flow.RefreshRemaining(characterID)
}

// ActiveBattleCount 活跃战斗数量
func (m *Manager) ActiveBattleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.battles)
}

// determineEnemyCount 按队伍规模决定敌人数量
func determineEnemyCount(partySize int) int {
	if partySize <= 1 {
		return 1
	}
	return 1 + partySize/2
}
