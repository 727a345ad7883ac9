package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/seed"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var employeeID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机班次, 2: 插入随机员工, 3: 插入随机请假记录, 4: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&employeeID, "employee-id", 0, "随机插入请假记录的员工 ID，为 0 时随机选择员工")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				shift := utils.GenerateRandomShift()
				if err := repo.CreateShift(shift); err != nil {
					slog.Error("无法插入班次", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入班次成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			// 固定班次需要引用已存在的班次
			shifts, err := repo.GetAllShifts()
			if err != nil {
				slog.Error("无法获取所有班次", slog.String("error", err.Error()))
				return
			}
			if len(shifts) == 0 {
				slog.Error("数据库中没有班次，请先插入班次")
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				emp := utils.GenerateRandomEmployee(shifts)
				if err := repo.CreateEmployee(emp); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的请假记录数量")
			return
		}

		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取所有员工", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 {
			slog.Error("数据库中没有员工，请先插入员工")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			targetID := employeeID
			if targetID == 0 {
				targetID = employees[rand.Intn(len(employees))].ID
			}

			rec := utils.GenerateRandomLeaveRecord()
			if err := repo.CreateLeaveRecord(targetID, rec); err != nil {
				slog.Error("无法插入请假记录", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入请假记录成功", slog.Int("count", cnt))
	case 4:
		seed.SeedDemoData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
