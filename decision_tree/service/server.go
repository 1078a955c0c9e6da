/*
	HTTP服务：数据集在启动时加载一次，之后只读。每个属性的划分结果算过一次就放进缓存，
	缓存在服务这一侧，划分计算本身不持有状态。
*/

package service

import (
	"net/http"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/decision_tree/report"
	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

type Server struct {
	data      *data.Data
	evaluator tree.IgSplit
	workers   int

	cache   cmap.ConcurrentMap // 属性下标 -> tree.Split
	names   mapset.Set         // 属性名
	metrics *metrics
	engine  *gin.Engine
}

// NewServer reg为nil时使用独立的registry
func NewServer(d *data.Data, evaluator tree.IgSplit, workers int, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		data:      d,
		evaluator: evaluator,
		workers:   workers,
		cache:     cmap.New(),
		names:     mapset.NewSet(),
		metrics:   newMetrics(reg),
	}
	dataset := d.Dataset()
	for i := 0; i < dataset.NumAttributes(); i++ {
		a, _ := dataset.Attribute(i)
		s.names.Add(a.Name)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), accessLog)
	r.GET("/dataset", s.describe)
	r.GET("/splits", s.splits)
	r.GET("/splits/:attr", s.split)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	logger.Infof("serving %d instances on %s", s.data.Size(), addr)
	return s.engine.Run(addr)
}

func accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	logger.Infof("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

type attributeInfo struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Categories []string `json:"categories,omitempty"`
}

func (s *Server) describe(c *gin.Context) {
	dataset := s.data.Dataset()
	attributes := make([]attributeInfo, 0, dataset.NumAttributes())
	for i := 0; i < dataset.NumAttributes(); i++ {
		a, _ := dataset.Attribute(i)
		attributes = append(attributes, attributeInfo{Index: i, Name: a.Name, Type: a.Type.String(), Categories: a.Categories})
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"size":       s.data.Size(),
		"labels":     dataset.Labels(),
		"attributes": attributes,
	})
}

// splits GET /splits?attrs=0,windy 不带attrs时计算全部属性
func (s *Server) splits(c *gin.Context) {
	attrs, err := report.ParseAttrs(s.data.Dataset(), c.Query("attrs"))
	if err != nil {
		fail(c, err)
		return
	}
	splits, err := report.Evaluate(c.Request.Context(), s.data, cachedSplit{s}, attrs, s.workers)
	if err != nil {
		fail(c, err)
		return
	}
	rows, err := report.Rows(s.data.Dataset(), splits)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "splits": rows})
}

// split GET /splits/:attr attr可以是属性名或下标
func (s *Server) split(c *gin.Context) {
	attr, err := s.resolveAttr(c.Param("attr"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	split, err := cachedSplit{s}.ComputeSplit(s.data, attr)
	if err != nil {
		fail(c, err)
		return
	}
	rows, err := report.Rows(s.data.Dataset(), []tree.Split{split})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "split": rows[0]})
}

func (s *Server) resolveAttr(param string) (int, error) {
	dataset := s.data.Dataset()
	if s.names.Contains(param) {
		return dataset.AttributeIndex(param), nil
	}
	attr, err := strconv.Atoi(param)
	if err != nil || attr < 0 || attr >= dataset.NumAttributes() {
		return -1, errors.Wrapf(utils.ErrInvalidArgument, "unknown attribute %q", param)
	}
	return attr, nil
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, utils.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}
	logger.Warnf("request %s failed: %v", c.Request.URL, err)
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// cachedSplit 先查缓存，没有再计算；只缓存成功的结果
type cachedSplit struct {
	s *Server
}

func (cs cachedSplit) ComputeSplit(d *data.Data, attr int) (tree.Split, error) {
	s := cs.s
	key := strconv.Itoa(attr)
	if v, has := s.cache.Get(key); has {
		s.metrics.cacheHits.Inc()
		return v.(tree.Split), nil
	}

	typ := "unknown"
	if numerical, err := d.Dataset().IsNumerical(attr); err == nil {
		typ = data.NonNumeric.String()
		if numerical {
			typ = data.Numeric.String()
		}
	}
	start := time.Now()
	split, err := s.evaluator.ComputeSplit(d, attr)
	s.metrics.duration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.evaluations.WithLabelValues(typ, "error").Inc()
		return tree.Split{}, err
	}
	s.metrics.evaluations.WithLabelValues(typ, "ok").Inc()
	s.cache.Set(key, split)
	return split, nil
}
